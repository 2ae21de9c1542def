package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/crossroads/internal/runtime"
)

// DefaultWidth is the render width used when none is configured.
const DefaultWidth = 80

// TextHandler drives a dialog from line-oriented text IO.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Width    int
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerWidth sets the render width.
func WithTextHandlerWidth(width int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Width = width
	}
}

// WithTextHandlerRenderer post-processes the rendered dialog (e.g. styling).
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Width:  DefaultWidth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, d *runtime.Dialog) error {
	output := d.Render(h.Width)
	if h.Renderer != nil {
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintf(h.Writer, "\n%s\n", output)
	return err
}

func (h *TextHandler) Input(ctx context.Context, d *runtime.Dialog) ([]runtime.Event, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return nil, io.EOF
			}
			if res.err != nil {
				return nil, res.err
			}
			line := strings.TrimRight(res.text, "\r\n")

			clean, err := SanitizeInput(line)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			events, err := ParseCommand(clean, d.IsEditing(), d.Editor().Text() != "")
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. %s\n", err, CommandHelp)
				continue
			}
			return events, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}
