package crossroads

import "github.com/aretw0/crossroads/internal/runtime"

// Dialog is the answer-collection state machine for one round.
type Dialog = runtime.Dialog

// View is the widget capability surfaces drive.
type View = runtime.View

// Event is one operator input to a Dialog.
type Event = runtime.Event

// EventKind tags an Event.
type EventKind = runtime.EventKind

// Operator inputs.
var (
	NavigateLeft   = runtime.NavigateLeft
	NavigateRight  = runtime.NavigateRight
	CursorUp       = runtime.CursorUp
	CursorDown     = runtime.CursorDown
	Activate       = runtime.Activate
	Delete         = runtime.Delete
	CommitFreeText = runtime.CommitFreeText
	Cancel         = runtime.Cancel
)

// QuickSelect returns the event for pressing digit (1-9).
func QuickSelect(digit int) Event { return runtime.QuickSelect(digit) }

// Input returns a free-text input event.
func Input(text string) Event { return runtime.Input(text) }

// Paste returns a free-text paste event.
func Paste(text string) Event { return runtime.Paste(text) }
