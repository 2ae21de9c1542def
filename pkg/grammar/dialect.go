package grammar

import (
	"fmt"
	"strings"

	"github.com/aretw0/crossroads/pkg/domain"
)

// Dialect is one recognized variant of the decision-point contract.
type Dialect struct {
	// Name identifies the dialect in configuration and APIs.
	Name string `json:"name"`
	// MaxRounds is the number of question rounds the agent may ask per plan.
	MaxRounds int `json:"max_rounds"`
	// RelabelForced rewrites a forced free-text option to the canonical sentinel text.
	// When false only the flag is flipped and the agent's wording is kept.
	RelabelForced bool `json:"relabel_forced"`
	// ExplainReplyFormat allows the agent to describe the reply format to the operator.
	ExplainReplyFormat bool `json:"explain_reply_format"`
}

var (
	// Strict is the full Plan Mode contract: up to 5 rounds.
	Strict = Dialect{
		Name:               "strict",
		MaxRounds:          5,
		RelabelForced:      true,
		ExplainReplyFormat: true,
	}

	// Lenient caps the plan at 3 rounds and keeps the reply format out of operator-facing text.
	Lenient = Dialect{
		Name:               "lenient",
		MaxRounds:          3,
		RelabelForced:      true,
		ExplainReplyFormat: false,
	}
)

// Dialects returns every built-in dialect.
func Dialects() []Dialect {
	return []Dialect{Strict, Lenient}
}

// ParseDialect looks up a built-in dialect by name (case-insensitive).
// An empty name selects Strict.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Strict.Name:
		return Strict, nil
	case Lenient.Name:
		return Lenient, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", domain.ErrUnknownDialect, name)
	}
}

func (d Dialect) String() string {
	return d.Name
}
