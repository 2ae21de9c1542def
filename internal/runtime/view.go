package runtime

import (
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const (
	// FooterHint is the key help line shown under the options.
	FooterHint = "Enter to select · Tab/Arrow keys to navigate · Esc to cancel"
	// Placeholder is shown in an empty free-text editor.
	Placeholder = "Type your answer…"
	// FreeTextTitle is how the sentinel option is displayed.
	FreeTextTitle = "Type something"
	// SubmitLabel is the caption of the virtual submit tab.
	SubmitLabel = "✔ Submit"

	descIndent      = 5
	maxEditorHeight = 3
)

// Tab is one entry of the step bar.
type Tab struct {
	Label    string `json:"label"`
	Answered bool   `json:"answered"`
	Active   bool   `json:"active"`
}

// OptionLine is one rendered option of the active question.
type OptionLine struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Cursor      bool   `json:"cursor"`
	Checked     bool   `json:"checked"`
	FreeText    bool   `json:"free_text"`
}

// Frame is the render-time view of a Dialog, derived on demand from its state.
type Frame struct {
	Tabs         []Tab        `json:"tabs"`
	SubmitActive bool         `json:"submit_active"`
	Error        string       `json:"error,omitempty"`
	Prompt       string       `json:"prompt,omitempty"`
	Options      []OptionLine `json:"options,omitempty"`
	Editing      bool         `json:"editing"`
	Summary      []string     `json:"summary,omitempty"`
}

// Frame computes the current view model.
func (d *Dialog) Frame() Frame {
	f := Frame{
		SubmitActive: d.onSubmitTab(),
		Error:        d.state.Error,
		Editing:      d.state.Editing,
	}
	for i, q := range d.round.Questions {
		f.Tabs = append(f.Tabs, Tab{
			Label:    q.Label,
			Answered: !d.state.Answers[i].IsEmpty(),
			Active:   i == d.state.ActiveTab,
		})
	}

	if f.SubmitActive {
		for i, q := range d.round.Questions {
			f.Summary = append(f.Summary, q.Label+": "+d.describeAnswer(i))
		}
		return f
	}

	q := d.round.Questions[d.state.ActiveTab]
	answer := d.state.Answers[d.state.ActiveTab]
	f.Prompt = q.Prompt
	for i, opt := range q.Options {
		line := OptionLine{
			Number: i + 1,
			Title:  opt.Title,
			Cursor: i == d.state.Cursor,
		}
		if opt.IsFreeText {
			line.FreeText = true
			line.Title = FreeTextTitle
			if !d.state.Editing {
				line.Description = "Next"
				if text := strings.TrimSpace(answer.FreeText); text != "" {
					line.Description = text
				}
			}
		} else {
			line.Checked = answer.Contains(i)
			line.Description = opt.Description
		}
		f.Options = append(f.Options, line)
	}
	return f
}

func (d *Dialog) describeAnswer(i int) string {
	a := d.state.Answers[i]
	if text := strings.TrimSpace(a.FreeText); text != "" {
		return text
	}
	if len(a.Selected) == 0 {
		return "(unanswered)"
	}
	titles := make([]string, len(a.Selected))
	for j, idx := range a.Selected {
		titles[j] = d.round.Questions[i].Options[idx].Title
	}
	return strings.Join(titles, ", ")
}

// editorHeight is the number of rows reserved for the free-text editor.
func (d *Dialog) editorHeight(width int) int {
	if !d.state.Editing {
		return 0
	}
	h := d.editor.DesiredHeight(max(width, 1))
	return min(max(h, 1), maxEditorHeight)
}

// Render draws the dialog as plain text at width columns.
func (d *Dialog) Render(width int) string {
	width = max(width, 1)
	return strings.Join(d.renderLines(width), "\n")
}

// DesiredHeight returns the number of rows Render produces at width.
func (d *Dialog) DesiredHeight(width int) int {
	return len(d.renderLines(max(width, 1)))
}

// CursorPosition returns the terminal cursor position inside the rendered dialog
// while the operator is typing, relative to the dialog's top-left corner.
func (d *Dialog) CursorPosition(width int) (x, y int, ok bool) {
	if !d.state.Editing {
		return 0, 0, false
	}
	width = max(width, 1)
	f := d.Frame()
	y = len(wrap(StepBar(f), width)) + len(errorLines(f)) + 1 + len(wrap(f.Prompt, width)) + 1 + len(optionLines(f, width))
	row, col := d.editor.Cursor()
	return col, y + min(row, d.editorHeight(width)-1), true
}

func (d *Dialog) renderLines(width int) []string {
	f := d.Frame()

	lines := wrap(StepBar(f), width)
	lines = append(lines, errorLines(f)...)
	lines = append(lines, "")

	if f.SubmitActive {
		lines = append(lines, wrap("Review your answers and press Enter to submit.", width)...)
		lines = append(lines, "")
		for _, s := range f.Summary {
			lines = append(lines, wrap(s, width)...)
		}
	} else {
		lines = append(lines, wrap(f.Prompt, width)...)
		lines = append(lines, "")
		lines = append(lines, optionLines(f, width)...)
	}

	if h := d.editorHeight(width); h > 0 {
		if d.editor.Text() == "" {
			lines = append(lines, Placeholder)
			for i := 1; i < h; i++ {
				lines = append(lines, "")
			}
		} else {
			lines = append(lines, strings.Split(d.editor.Render(width, h), "\n")...)
		}
	}

	lines = append(lines, "", FooterHint)
	return lines
}

// StepBar renders the tab strip: one checkbox per question and the submit tab.
func StepBar(f Frame) string {
	var b strings.Builder
	b.WriteString("←  ")
	for _, t := range f.Tabs {
		if t.Answered {
			b.WriteString("☑ ")
		} else {
			b.WriteString("☐ ")
		}
		b.WriteString(t.Label)
		b.WriteString("  ")
	}
	b.WriteString(SubmitLabel)
	b.WriteString("  →")
	return b.String()
}

// OptionPrefix renders the cursor marker, number and checkbox of an option.
func OptionPrefix(o OptionLine) string {
	marker := "  "
	if o.Cursor {
		marker = "❯ "
	}
	box := "[ ]"
	if o.Checked {
		box = "[x]"
	}
	return marker + strconv.Itoa(o.Number) + ". " + box + " "
}

func errorLines(f Frame) []string {
	if f.Error == "" {
		return nil
	}
	return []string{f.Error}
}

func optionLines(f Frame, width int) []string {
	var lines []string
	for _, o := range f.Options {
		lines = append(lines, OptionPrefix(o)+o.Title)
		if o.Description != "" {
			lines = append(lines, WrapIndented(o.Description, width, descIndent)...)
		}
	}
	return lines
}

func wrap(text string, width int) []string {
	return strings.Split(wordwrap.String(text, width), "\n")
}

// WrapIndented word-wraps text to width, indenting every line by n spaces.
func WrapIndented(text string, width, n int) []string {
	wrapped := wordwrap.String(text, max(width-n, 1))
	return strings.Split(indent.String(wrapped, uint(n)), "\n")
}
