package runtime

import (
	"fmt"
	"strings"
)

// EventKind enumerates the abstract operator inputs a Dialog accepts.
type EventKind int

const (
	EventNavigateLeft EventKind = iota + 1
	EventNavigateRight
	EventCursorUp
	EventCursorDown
	EventActivate
	EventQuickSelect
	EventFreeTextInput
	EventFreeTextPaste
	EventFreeTextDelete
	EventCommitFreeText
	EventCancel
)

var eventNames = map[EventKind]string{
	EventNavigateLeft:   "navigate_left",
	EventNavigateRight:  "navigate_right",
	EventCursorUp:       "cursor_up",
	EventCursorDown:     "cursor_down",
	EventActivate:       "activate",
	EventQuickSelect:    "quick_select",
	EventFreeTextInput:  "input",
	EventFreeTextPaste:  "paste",
	EventFreeTextDelete: "delete",
	EventCommitFreeText: "commit",
	EventCancel:         "cancel",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	if name, ok := eventNames[k]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("unknown event kind %d", int(k))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for kind, n := range eventNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", string(text))
}

// Event is one operator input.
// Digit is used by EventQuickSelect (1-9); Text by EventFreeTextInput and EventFreeTextPaste.
type Event struct {
	Kind  EventKind `json:"kind"`
	Digit int       `json:"digit,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// Convenience constructors.
var (
	NavigateLeft   = Event{Kind: EventNavigateLeft}
	NavigateRight  = Event{Kind: EventNavigateRight}
	CursorUp       = Event{Kind: EventCursorUp}
	CursorDown     = Event{Kind: EventCursorDown}
	Activate       = Event{Kind: EventActivate}
	Delete         = Event{Kind: EventFreeTextDelete}
	CommitFreeText = Event{Kind: EventCommitFreeText}
	Cancel         = Event{Kind: EventCancel}
)

// QuickSelect returns the event for pressing a digit key.
func QuickSelect(digit int) Event {
	return Event{Kind: EventQuickSelect, Digit: digit}
}

// Input returns a free-text input event.
func Input(text string) Event {
	return Event{Kind: EventFreeTextInput, Text: text}
}

// Paste returns a free-text paste event.
func Paste(text string) Event {
	return Event{Kind: EventFreeTextPaste, Text: text}
}
