package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/crossroads/internal/runtime"
)

// FrameMessage is one JSON line written by JSONHandler.Output.
type FrameMessage struct {
	Type     string        `json:"type"`
	Frame    runtime.Frame `json:"frame"`
	Draft    string        `json:"draft,omitempty"`
	Complete bool          `json:"complete"`
}

// SystemMessage is one JSON line written by JSONHandler.SystemOutput.
type SystemMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// JSONHandler implements IOHandler over JSON Lines for programmatic hosts.
//
// Each input line is an event object ({"kind":"quick_select","digit":2}), an
// array of event objects, or a JSON string holding a line-mode command.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, d *runtime.Dialog) error {
	msg := FrameMessage{
		Type:     "frame",
		Frame:    d.Frame(),
		Complete: d.IsComplete(),
	}
	if d.IsEditing() {
		msg.Draft = d.Editor().Text()
	}
	return h.Encoder.Encode(msg)
}

func (h *JSONHandler) Input(ctx context.Context, d *runtime.Dialog) ([]runtime.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return nil, err
	}
	return decodeEvents(strings.TrimSpace(text), d)
}

func decodeEvents(text string, d *runtime.Dialog) ([]runtime.Event, error) {
	switch {
	case strings.HasPrefix(text, "["):
		var events []runtime.Event
		if err := json.Unmarshal([]byte(text), &events); err != nil {
			return nil, fmt.Errorf("%w: event list: %v", ErrInvalidInput, err)
		}
		return events, nil
	case strings.HasPrefix(text, "{"):
		var ev runtime.Event
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return nil, fmt.Errorf("%w: event: %v", ErrInvalidInput, err)
		}
		return []runtime.Event{ev}, nil
	}

	line := text
	var quoted string
	if err := json.Unmarshal([]byte(text), &quoted); err == nil {
		line = quoted
	}
	return ParseCommand(line, d.IsEditing(), d.Editor().Text() != "")
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(SystemMessage{Type: "system", Message: msg})
}
