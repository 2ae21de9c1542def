package grammar

import (
	"bytes"
	"text/template"

	"github.com/aretw0/crossroads/pkg/domain"
)

const instructionsTemplate = `Plan Mode is enabled.

Plan Mode loop:
- Always start with: Goal (1–2 lines), Plan (numbered steps), Decision points (question round 1 of up to {{.MaxRounds}} rounds; 1–5 questions), Checkpoints, Rollback.
- Do not call tools or start edits until the user answers the current question round.
- Decision points formatting must be parseable:
  - Use an exact section header line: "Decision points"
  - Each question uses: ` + "`N) **Label** (single-select|multi-select): Prompt`" + `
  - Each option uses an indented numbered line: ` + "`  N. Option title`" + `
  - If an option needs a description, put it on the next line indented by 5 spaces.
- Questions must be structured and numbered. Each question is single-select or multi-select, with 2–5 total options; the last option is always "{{.Sentinel}}".
- Answer format: for a round with K questions, the user replies with K lines (one per question, in order). Each line is either:
  - single-select: "1"
  - multi-select: "1,3,4"
  - free text: any non-numeric text (treat as choosing "{{.Sentinel}}")
{{- if not .ExplainReplyFormat}}
- Do not explain the answer format to the user; the interface collects the answers and sends them in this format.
{{- end}}
- After receiving answers: print a Decision ledger with "Decisions" and "Plan updates", then immediately continue executing the plan.
- During execution: update progress via the update_plan tool; at checkpoints run the planned validations. If new ambiguity/failure requires a fork, ask another question round (still max {{.MaxRounds}} total rounds), update the plan, and continue.
`

var instructions = template.Must(template.New("instructions").Parse(instructionsTemplate))

// Instructions renders the developer-instruction contract for a dialect.
func Instructions(d Dialect) string {
	var buf bytes.Buffer
	data := struct {
		Dialect
		Sentinel string
	}{d, domain.SentinelTitle}
	if err := instructions.Execute(&buf, data); err != nil {
		// The template is static; a failure here is a programming error.
		panic(err)
	}
	return buf.String()
}

// Inject inserts the developer instructions right after any leading developer messages.
// It is a no-op unless mode is Plan or the instructions are already present.
// The input slice is not modified.
func Inject(messages []domain.Message, mode domain.InteractionMode, d Dialect) []domain.Message {
	if mode != domain.ModePlan {
		return messages
	}

	at := len(messages)
	for i, m := range messages {
		if m.Role != domain.RoleDeveloper {
			at = i
			break
		}
	}

	text := Instructions(d)
	for _, m := range messages[:at] {
		if m.Content == text {
			return messages
		}
	}

	out := make([]domain.Message, 0, len(messages)+1)
	out = append(out, messages[:at]...)
	out = append(out, domain.Message{Role: domain.RoleDeveloper, Content: text})
	out = append(out, messages[at:]...)
	return out
}
