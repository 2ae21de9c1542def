/*
Package crossroads implements the decision-point protocol between a planning agent and its operator.

A planning agent that needs input mid-plan emits a "Decision points" section in its message.
Crossroads parses that section into a Round of 1-5 questions, walks the operator through it with a
tabbed dialog, and encodes the answers into the compact line-based reply the agent was told to expect.

# Concept

The protocol has two halves that must agree:

  - The developer-instruction contract, injected into plan-mode conversations, tells the agent
    exactly how to format questions and how the reply will look.
  - The grammar parser tolerates the loosely formatted text the agent actually produces, and
    repairs it (truncation, sentinel option) into a valid Round.

Both halves are parameterised by a Dialect: strict (5 rounds per plan) or lenient (3 rounds, no
explanation of the reply format to the operator).

# Key Components

  - Engine: binds a dialect to the parser, the instruction text and the dialogs it creates.
  - Dialog: the state machine. Feed it Events; on submit it hands one reply to a ReplySink.
  - pkg/codec: the pure reply encoder/decoder.
  - pkg/runner and pkg/runner/tui: line-mode and interactive terminal surfaces.
  - pkg/session: headless dialog sessions driven one event batch at a time.
  - pkg/adapters: HTTP, MCP, Redis, file, in-memory and loam integrations.
  - pkg/persistence/middleware: encryption and redaction for stored sessions.

# Usage

	eng := crossroads.New(crossroads.WithReplySink(sink))

	round, ok := eng.Parse(ctx, agentMessage)
	if !ok {
		// ordinary message, nothing to ask
		return
	}

	dialog, err := eng.NewDialog(round)
	if err != nil {
		log.Fatal(err)
	}
	for !dialog.IsComplete() {
		ev := nextEvent() // from a terminal, an HTTP request...
		_ = dialog.HandleEvent(ctx, ev)
	}
*/
package crossroads
