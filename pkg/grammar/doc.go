/*
Package grammar recognizes decision-point rounds in agent-authored text and renders the
developer instructions that tell the agent how to write them.

The parser is a tolerant line scanner. It looks for a "Decision points" header, reads
numbered questions and their options until a section stop line ("Checkpoints",
"Rollback", "Plan", "Goal"), then repairs the result so that every Round it returns
satisfies the structural invariants of the protocol.

# Dialects

A Dialect selects the instruction text (strict or lenient), the advertised round cap
and whether a forced free-text option is relabelled to the canonical sentinel. It is
chosen once, when the Parser is built:

	p := grammar.New(grammar.WithDialect(grammar.Lenient))
	round, ok := p.Parse(message)
	if !ok {
		// ordinary message, no decision round
	}

# Key Components

  - Parser: text -> optional domain.Round, with a Repairs report.
  - Dialect: static configuration shared by the parser and the instructions.
  - Instructions / Inject: the developer-instruction contract for Plan mode.
*/
package grammar
