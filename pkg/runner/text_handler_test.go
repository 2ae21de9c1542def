package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crossroads/internal/runtime"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf,
		WithTextHandlerWidth(40),
		WithTextHandlerRenderer(func(s string) (string, error) {
			return "Rendered:\n" + s, nil
		}),
	)

	d := newTestDialog(t, testRound(1))
	require.NoError(t, handler.Output(context.Background(), d))

	output := outBuf.String()
	assert.Contains(t, output, "Rendered:")
	assert.Contains(t, output, "❯ 1. [ ] Option A")
	assert.Contains(t, output, runtime.FooterHint)
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("2\r\n\x1b\n"), outBuf)
	d := newTestDialog(t, testRound(1))
	ctx := context.Background()

	events, err := handler.Input(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []runtime.Event{runtime.QuickSelect(2)}, events)

	// A lone escape byte is stripped to an empty line, which activates.
	events, err = handler.Input(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []runtime.Event{runtime.Activate}, events)

	_, err = handler.Input(ctx, d)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 3, strings.Count(outBuf.String(), "> "))
}

func TestTextHandler_InputRetriesInvalid(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "4")

	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("toolong\nnope\n1\n"), outBuf)
	d := newTestDialog(t, testRound(1))

	events, err := handler.Input(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, []runtime.Event{runtime.QuickSelect(1)}, events)
	assert.Contains(t, outBuf.String(), "input exceeds maximum allowed size")
	assert.Contains(t, outBuf.String(), CommandHelp)
}

func TestTextHandler_SystemOutput(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)
	require.NoError(t, handler.SystemOutput(context.Background(), "hello"))
	assert.Equal(t, "\n[System] hello\n", outBuf.String())
}
