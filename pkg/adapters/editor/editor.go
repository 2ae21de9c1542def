// Package editor provides the free-text editor used by the decision dialog.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/aretw0/crossroads/pkg/ports"
)

// Textarea adapts a bubbles textarea to ports.TextEditor.
// It runs headless: no program is required to drive it.
type Textarea struct {
	model textarea.Model
}

var _ ports.TextEditor = (*Textarea)(nil)

// New creates a focused, borderless single-prompt editor.
func New() *Textarea {
	m := textarea.New()
	m.Prompt = ""
	m.ShowLineNumbers = false
	m.Placeholder = ""
	m.CharLimit = 0
	m.SetWidth(80)
	m.SetHeight(1)
	m.Focus()
	return &Textarea{model: m}
}

// Model exposes the underlying textarea for surfaces that forward raw key messages.
func (t *Textarea) Model() *textarea.Model {
	return &t.model
}

func (t *Textarea) SetText(text string) {
	t.model.SetValue(text)
	t.model.CursorEnd()
}

func (t *Textarea) InsertString(text string) {
	t.model.InsertString(text)
}

func (t *Textarea) DeleteBackward() {
	t.model, _ = t.model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
}

func (t *Textarea) Text() string {
	return t.model.Value()
}

// Cursor returns the visual row and column of the caret.
func (t *Textarea) Cursor() (int, int) {
	info := t.model.LineInfo()
	return t.model.Line() + info.RowOffset, info.ColumnOffset
}

// DesiredHeight counts the rows the text occupies when soft-wrapped at width.
func (t *Textarea) DesiredHeight(width int) int {
	width = max(width, 1)
	rows := 0
	for _, line := range strings.Split(t.model.Value(), "\n") {
		w := runewidth.StringWidth(line)
		rows += max(1, (w+width-1)/width)
	}
	return rows
}

func (t *Textarea) Render(width, height int) string {
	t.model.SetWidth(max(width, 1))
	t.model.SetHeight(max(height, 1))
	return t.model.View()
}
