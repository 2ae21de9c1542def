// Package tui runs a decision dialog as an interactive bubbletea program.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/crossroads/internal/runtime"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/runner"
)

const maxEditorRows = 3

// Model adapts a runtime.Dialog to tea.Model.
type Model struct {
	ctx    context.Context
	dialog *runtime.Dialog
	keys   KeyMap
	header string
	width  int
}

var _ tea.Model = (*Model)(nil)

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithHeader shows pre-rendered text (usually the agent's plan) above the dialog.
func WithHeader(header string) ModelOption {
	return func(m *Model) {
		m.header = strings.TrimRight(header, "\n")
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keys KeyMap) ModelOption {
	return func(m *Model) {
		m.keys = keys
	}
}

// NewModel wraps d. Events are dispatched with ctx.
func NewModel(ctx context.Context, d *runtime.Dialog, opts ...ModelOption) *Model {
	m := &Model{
		ctx:    ctx,
		dialog: d,
		keys:   DefaultKeyMap(),
		width:  runner.DefaultWidth,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 1)
	case tea.KeyMsg:
		for _, ev := range m.keys.Events(msg, m.dialog.IsEditing()) {
			if err := m.dialog.HandleEvent(m.ctx, ev); errors.Is(err, domain.ErrDialogComplete) {
				break
			}
		}
	}
	if m.dialog.IsComplete() {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) View() string {
	if m.dialog.IsComplete() {
		return ""
	}

	f := m.dialog.Frame()
	var b strings.Builder
	if m.header != "" {
		b.WriteString(m.header)
		b.WriteString("\n\n")
	}

	b.WriteString(stepBar(f))
	b.WriteString("\n")
	if f.Error != "" {
		b.WriteString(errorStyle.Render(f.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if f.SubmitActive {
		b.WriteString(promptStyle.Render("Review your answers and press Enter to submit."))
		b.WriteString("\n\n")
		for _, s := range f.Summary {
			b.WriteString(s)
			b.WriteString("\n")
		}
	} else {
		b.WriteString(promptStyle.Render(strings.Join(runtime.WrapIndented(f.Prompt, m.width, 0), "\n")))
		b.WriteString("\n\n")
		for _, o := range f.Options {
			line := runtime.OptionPrefix(o) + o.Title
			if o.Cursor {
				line = cursorStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
			if o.Description != "" {
				b.WriteString(descriptionStyle.Render(strings.Join(runtime.WrapIndented(o.Description, m.width, 5), "\n")))
				b.WriteString("\n")
			}
		}
	}

	if f.Editing {
		ed := m.dialog.Editor()
		inner := max(m.width-2, 1)
		rows := min(max(ed.DesiredHeight(inner), 1), maxEditorRows)
		text := runtime.Placeholder
		if ed.Text() != "" {
			text = ed.Render(inner, rows)
		}
		b.WriteString(editorStyle.Render(text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(runtime.FooterHint))
	return b.String()
}

func stepBar(f runtime.Frame) string {
	parts := []string{"←"}
	for _, t := range f.Tabs {
		box := "☐ "
		style := tabStyle
		if t.Answered {
			box = "☑ "
			style = tabAnsweredStyle
		}
		if t.Active {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(box+t.Label))
	}
	submit := tabStyle
	if f.SubmitActive {
		submit = tabActiveStyle
	}
	parts = append(parts, submit.Render(runtime.SubmitLabel), "→")
	return strings.Join(parts, "  ")
}

// Options configures Run.
type Options struct {
	Input  io.Reader
	Output io.Writer
	Model  []ModelOption
}

// Run shows the dialog inline on the terminal until it completes.
// Cancelling ctx cancels the dialog and returns ctx.Err().
func Run(ctx context.Context, d *runtime.Dialog, opts Options) (runner.Result, error) {
	var progOpts []tea.ProgramOption
	progOpts = append(progOpts, tea.WithContext(ctx))
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	p := tea.NewProgram(NewModel(ctx, d, opts.Model...), progOpts...)
	if _, err := p.Run(); err != nil {
		d.Cancel(context.WithoutCancel(ctx))
		if ctx.Err() != nil {
			return runner.Result{}, ctx.Err()
		}
		return runner.Result{}, err
	}
	if !d.IsComplete() {
		d.Cancel(ctx)
	}

	reply, submitted := d.Reply()
	return runner.Result{Reply: reply, Submitted: submitted}, nil
}
