package grammar

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/crossroads/pkg/domain"
)

const headerText = "decision points"

var (
	stopLines = []string{"checkpoints", "rollback", "plan", "goal"}

	questionMarkers = []string{"single-select", "single select", "multi-select", "multi select", "select all"}
	multiMarkers    = []string{"multi-select", "multi select", "select all"}
	freeTextMarkers = []string{"type your answer", "type something", "(none)"}

	kindParenthetical = regexp.MustCompile(`(?i)\((?:single|multi)-select\)`)
)

// isHeader reports whether line opens the decision-points section.
func isHeader(line string) bool {
	rest := strings.TrimLeft(strings.TrimSpace(line), "#")
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(rest) < len(headerText) || !strings.EqualFold(rest[:len(headerText)], headerText) {
		return false
	}
	suffix := rest[len(headerText):]
	if suffix == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(suffix)
	switch r {
	case ':', '-', '—', '<':
		return true
	}
	return unicode.IsSpace(r)
}

func isStopLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, stop := range stopLines {
		if strings.EqualFold(trimmed, stop) {
			return true
		}
	}
	return false
}

// numberedLine matches "12) rest", "3. rest", "4: rest" and "5- rest".
// The delimiter must be followed by whitespace.
func numberedLine(line string) (int, string, bool) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(trimmed) {
		return 0, "", false
	}
	switch trimmed[i] {
	case ')', '.', ':', '-':
	default:
		return 0, "", false
	}
	after := trimmed[i+1:]
	r, _ := utf8.DecodeRuneInString(after)
	if !unicode.IsSpace(r) {
		return 0, "", false
	}
	num, err := strconv.Atoi(trimmed[:i])
	if err != nil {
		return 0, "", false
	}
	return num, strings.TrimSpace(after), true
}

// bulletLine matches "- rest" and "* rest".
func bulletLine(line string) (string, bool) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if len(trimmed) < 2 || (trimmed[0] != '-' && trimmed[0] != '*') {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(trimmed[1:])
	if !unicode.IsSpace(r) {
		return "", false
	}
	return strings.TrimSpace(trimmed[1:]), true
}

func looksLikeQuestion(text string) bool {
	return strings.Contains(text, "**") || containsAny(strings.ToLower(text), questionMarkers)
}

func parseQuestion(num int, text string) domain.Question {
	original := strings.TrimSpace(text)
	label, rest, ok := splitFirstBold(original)
	if !ok {
		label = "Question " + strconv.Itoa(num)
	}

	kind := domain.SingleSelect
	if containsAny(strings.ToLower(original), multiMarkers) {
		kind = domain.MultiSelect
	}

	prompt := kindParenthetical.ReplaceAllString(rest, "")
	prompt = strings.TrimSpace(prompt)
	prompt = strings.TrimLeft(prompt, ":-—")
	prompt = domain.NormalizeSpace(prompt)
	if prompt == "" {
		prompt = original
	}

	return domain.Question{
		Label:  label,
		Prompt: prompt,
		Kind:   kind,
	}
}

func parseOption(text string) domain.Option {
	text = strings.TrimSpace(text)
	opt := domain.Option{
		Title:      text,
		IsFreeText: containsAny(strings.ToLower(text), freeTextMarkers),
	}
	if title, desc, ok := strings.Cut(text, " - "); ok {
		opt.Title, opt.Description = strings.TrimSpace(title), strings.TrimSpace(desc)
	} else if title, desc, ok := strings.Cut(text, " — "); ok {
		opt.Title, opt.Description = strings.TrimSpace(title), strings.TrimSpace(desc)
	}
	return opt
}

func appendDescription(opt *domain.Option, line string) {
	if opt.Description != "" {
		opt.Description += " "
	}
	opt.Description += strings.TrimSpace(line)
}

// splitFirstBold extracts the first closed **bold** span.
// An empty or unclosed span yields no label and leaves s untouched.
func splitFirstBold(s string) (label, rest string, ok bool) {
	start := strings.Index(s, "**")
	if start < 0 {
		return "", s, false
	}
	end := strings.Index(s[start+2:], "**")
	if end < 0 {
		return "", s, false
	}
	end += start + 2
	label = strings.TrimSpace(s[start+2 : end])
	if label == "" {
		return "", s, false
	}
	return label, s[:start] + s[end+2:], true
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
