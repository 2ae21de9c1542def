package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/crossroads/internal/runtime"
)

// KeyMap binds terminal keys to dialog events.
type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	Delete   key.Binding
	Cancel   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←/shift+tab", "previous question"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→/tab", "next question"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous option"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next option"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", tea.KeyCtrlC.String()),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Events translates one key press into dialog events.
// While editing, printable keys (digits included) are text.
func (k KeyMap) Events(msg tea.KeyMsg, editing bool) []runtime.Event {
	switch {
	case key.Matches(msg, k.Cancel):
		return []runtime.Event{runtime.Cancel}
	case key.Matches(msg, k.Left):
		return []runtime.Event{runtime.NavigateLeft}
	case key.Matches(msg, k.Right):
		return []runtime.Event{runtime.NavigateRight}
	case key.Matches(msg, k.Up):
		return []runtime.Event{runtime.CursorUp}
	case key.Matches(msg, k.Down):
		return []runtime.Event{runtime.CursorDown}
	case key.Matches(msg, k.Activate):
		return []runtime.Event{runtime.Activate}
	case key.Matches(msg, k.Delete):
		if editing {
			return []runtime.Event{runtime.Delete}
		}
		return nil
	}

	switch msg.Type {
	case tea.KeySpace:
		if editing {
			return []runtime.Event{runtime.Input(" ")}
		}
		return []runtime.Event{runtime.Activate}
	case tea.KeyRunes:
		text := string(msg.Runes)
		if editing {
			if msg.Paste {
				return []runtime.Event{runtime.Paste(text)}
			}
			return []runtime.Event{runtime.Input(text)}
		}
		if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
			return []runtime.Event{runtime.QuickSelect(int(msg.Runes[0] - '0'))}
		}
	}
	return nil
}
