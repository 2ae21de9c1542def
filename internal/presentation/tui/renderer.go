package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background; width 0 keeps glamour's default.
func NewRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	return newRenderer(opts...)
}

// NewPlainRenderer renders markdown without colors, for pipes and tests.
func NewPlainRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("notty")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	return newRenderer(opts...)
}

func newRenderer(opts ...glamour.TermRendererOption) (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(out, "\n") + "\n", nil
	}, nil
}
