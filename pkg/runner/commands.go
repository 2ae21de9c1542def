package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/crossroads/internal/runtime"
)

var (
	// ErrInvalidInput marks operator input the runner reports and then ignores.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCommand is returned for a line that maps to no dialog event.
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", ErrInvalidInput)
)

// CommandHelp describes the line-mode commands.
const CommandHelp = "1-9 select · < > switch question · u d move · . or Enter activate · q cancel"

var commandEvents = map[string]runtime.Event{
	"":      runtime.Activate,
	".":     runtime.Activate,
	"<":     runtime.NavigateLeft,
	"h":     runtime.NavigateLeft,
	"left":  runtime.NavigateLeft,
	">":     runtime.NavigateRight,
	"l":     runtime.NavigateRight,
	"right": runtime.NavigateRight,
	"tab":   runtime.NavigateRight,
	"u":     runtime.CursorUp,
	"k":     runtime.CursorUp,
	"up":    runtime.CursorUp,
	"d":     runtime.CursorDown,
	"j":     runtime.CursorDown,
	"down":  runtime.CursorDown,
	"q":     runtime.Cancel,
	"quit":  runtime.Cancel,
	"exit":  runtime.Cancel,
	"esc":   runtime.Cancel,
}

// ParseCommand maps one line of operator input to dialog events.
//
// While answering, a line is a command or a list of digits ("1,3 4" toggles
// three options). While editing a free-text answer every line is text, except
// that an empty line commits and a lone "<" or ">" switches question.
// hasText reports whether the editor already holds text, so consecutive lines
// are joined with a space.
func ParseCommand(line string, editing, hasText bool) ([]runtime.Event, error) {
	if editing {
		switch strings.TrimSpace(line) {
		case "":
			return []runtime.Event{runtime.CommitFreeText}, nil
		case "<":
			return []runtime.Event{runtime.NavigateLeft}, nil
		case ">":
			return []runtime.Event{runtime.NavigateRight}, nil
		}
		if hasText {
			line = " " + line
		}
		return []runtime.Event{runtime.Input(line)}, nil
	}

	cmd := strings.ToLower(strings.TrimSpace(line))
	if ev, ok := commandEvents[cmd]; ok {
		return []runtime.Event{ev}, nil
	}

	fields := strings.FieldsFunc(cmd, func(r rune) bool { return r == ',' || r == ' ' })
	events := make([]runtime.Event, 0, len(fields))
	for _, f := range fields {
		if len(f) != 1 || f[0] < '1' || f[0] > '9' {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
		}
		events = append(events, runtime.QuickSelect(int(f[0]-'0')))
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	return events, nil
}
