package domain

import (
	"fmt"
	"strings"
)

const (
	// MaxQuestions is the largest number of questions a Round may carry.
	MaxQuestions = 5
	// MaxOptions is the largest number of options a Question may carry.
	MaxOptions = 5
	// MinOptions is the smallest number of options a Question may carry (one real choice plus the sentinel).
	MinOptions = 2

	// SentinelTitle is the canonical title of the free-text option.
	SentinelTitle = "(None) Type your answer"
)

// QuestionKind defines how many options an operator may pick.
type QuestionKind int

const (
	SingleSelect QuestionKind = iota
	MultiSelect
)

func (k QuestionKind) String() string {
	switch k {
	case SingleSelect:
		return "single-select"
	case MultiSelect:
		return "multi-select"
	default:
		return fmt.Sprintf("QuestionKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k QuestionKind) MarshalText() ([]byte, error) {
	switch k {
	case SingleSelect, MultiSelect:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown question kind %d", int(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *QuestionKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "single-select", "single":
		*k = SingleSelect
	case "multi-select", "multi":
		*k = MultiSelect
	default:
		return fmt.Errorf("unknown question kind %q", string(text))
	}
	return nil
}

// Option is one selectable choice of a Question.
type Option struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsFreeText  bool   `json:"is_free_text,omitempty"`
}

// NewSentinelOption returns the canonical free-text option.
func NewSentinelOption() Option {
	return Option{Title: SentinelTitle, IsFreeText: true}
}

// Question is a single decision point presented as one tab of the dialog.
type Question struct {
	Label   string       `json:"label"`
	Prompt  string       `json:"prompt"`
	Kind    QuestionKind `json:"kind"`
	Options []Option     `json:"options"`
}

// FreeTextIndex returns the index of the free-text option, or -1.
func (q Question) FreeTextIndex() int {
	for i, opt := range q.Options {
		if opt.IsFreeText {
			return i
		}
	}
	return -1
}

// Round is the immutable set of questions produced from one agent message.
type Round struct {
	Questions []Question `json:"questions"`
}

// Len returns the number of questions.
func (r Round) Len() int {
	return len(r.Questions)
}

// Validate checks the structural invariants every parsed Round satisfies.
func (r Round) Validate() error {
	if n := len(r.Questions); n < 1 || n > MaxQuestions {
		return fmt.Errorf("%w: %d questions (want 1-%d)", ErrInvalidRound, n, MaxQuestions)
	}
	for i, q := range r.Questions {
		if n := len(q.Options); n < MinOptions || n > MaxOptions {
			return fmt.Errorf("%w: question %d has %d options (want %d-%d)", ErrInvalidRound, i+1, n, MinOptions, MaxOptions)
		}
		free := 0
		for _, opt := range q.Options {
			if opt.IsFreeText {
				free++
			}
		}
		if free != 1 {
			return fmt.Errorf("%w: question %d has %d free-text options (want 1)", ErrInvalidRound, i+1, free)
		}
		if !q.Options[len(q.Options)-1].IsFreeText {
			return fmt.Errorf("%w: question %d free-text option is not last", ErrInvalidRound, i+1)
		}
	}
	return nil
}

// Clone returns a deep copy of the round.
func (r Round) Clone() Round {
	out := Round{Questions: make([]Question, len(r.Questions))}
	for i, q := range r.Questions {
		q.Options = append([]Option(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}
