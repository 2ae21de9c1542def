// Package codec converts collected answers to and from the line-based reply format the
// agent is instructed to expect: one line per question, each a bare digit, a comma list
// of digits or free text.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/crossroads/pkg/domain"
)

// Encode serializes answers into the reply text, one line per question in order.
// answers must be index-aligned with round.Questions; missing answers encode as empty lines.
func Encode(round domain.Round, answers []domain.Answer) string {
	lines := make([]string, len(round.Questions))
	for i, q := range round.Questions {
		var a domain.Answer
		if i < len(answers) {
			a = answers[i]
		}
		lines[i] = encodeLine(q.Kind, a)
	}
	return strings.Join(lines, "\n")
}

func encodeLine(kind domain.QuestionKind, a domain.Answer) string {
	if text := strings.TrimSpace(a.FreeText); text != "" {
		return text
	}
	switch kind {
	case domain.SingleSelect:
		if len(a.Selected) == 0 {
			return ""
		}
		return strconv.Itoa(a.Selected[0] + 1)
	case domain.MultiSelect:
		parts := make([]string, len(a.Selected))
		for i, idx := range a.Selected {
			parts[i] = strconv.Itoa(idx + 1)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// Decode parses a reply back into answers for round.
// The reply must carry exactly one line per question. A line is read as a selection when
// it is a valid index (SingleSelect) or comma list of indices (MultiSelect) over the
// non-free-text options; any other line is free text.
func Decode(round domain.Round, reply string) ([]domain.Answer, error) {
	reply = strings.TrimRight(strings.ReplaceAll(reply, "\r\n", "\n"), "\n")
	lines := strings.Split(reply, "\n")
	if len(lines) != len(round.Questions) {
		return nil, fmt.Errorf("%w: got %d lines for %d questions", domain.ErrMalformedReply, len(lines), len(round.Questions))
	}

	answers := make([]domain.Answer, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil, fmt.Errorf("%w: line %d is empty", domain.ErrMalformedReply, i+1)
		}
		q := round.Questions[i]
		if sel, ok := parseSelection(q, line); ok {
			answers[i].Selected = sel
			continue
		}
		answers[i].FreeText = line
	}
	return answers, nil
}

func parseSelection(q domain.Question, line string) ([]int, bool) {
	choices := len(q.Options)
	if q.FreeTextIndex() >= 0 {
		choices--
	}

	fields := strings.Split(line, ",")
	if q.Kind == domain.SingleSelect && len(fields) != 1 {
		return nil, false
	}

	var a domain.Answer
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 1 || n > choices {
			return nil, false
		}
		if !a.Contains(n - 1) {
			a.Toggle(n - 1)
		}
	}
	return a.Selected, true
}

// Validate checks that answers can be encoded for round: one complete answer per
// question, indices inside the choice options, a single index for single-select.
func Validate(round domain.Round, answers []domain.Answer) error {
	if err := ValidatePartial(round, answers); err != nil {
		return err
	}
	for i, a := range answers {
		if a.IsEmpty() {
			return fmt.Errorf("%w: question %d is unanswered", domain.ErrInvalidAnswer, i+1)
		}
	}
	return nil
}

// ValidatePartial is Validate for answers still being collected: unanswered
// questions are allowed, malformed selections are not.
func ValidatePartial(round domain.Round, answers []domain.Answer) error {
	if len(answers) != len(round.Questions) {
		return fmt.Errorf("%w: %d answers for %d questions", domain.ErrInvalidAnswer, len(answers), len(round.Questions))
	}
	for i, q := range round.Questions {
		a := answers[i]
		if strings.TrimSpace(a.FreeText) != "" {
			continue
		}
		if q.Kind == domain.SingleSelect && len(a.Selected) > 1 {
			return fmt.Errorf("%w: question %d takes one option, got %d", domain.ErrInvalidAnswer, i+1, len(a.Selected))
		}
		for _, idx := range a.Selected {
			if idx < 0 || idx >= len(q.Options) || q.Options[idx].IsFreeText {
				return fmt.Errorf("%w: question %d has no option %d", domain.ErrInvalidAnswer, i+1, idx+1)
			}
		}
	}
	return nil
}
