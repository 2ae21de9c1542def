package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/crossroads"
	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/internal/presentation/tui"
	"github.com/aretw0/crossroads/pkg/runner"
	runnertui "github.com/aretw0/crossroads/pkg/runner/tui"
)

// Interaction modes for RunAsk.
const (
	ModeAuto = "auto"
	ModeTUI  = "tui"
	ModeLine = "line"
	ModeJSON = "json"
)

// ErrNoDecisionPoints is returned when the message carries no decision round.
var ErrNoDecisionPoints = errors.New("message has no decision points")

// AskOptions configures RunAsk.
// The dialog is drawn on Stderr so Stdout carries only the reply.
type AskOptions struct {
	Engine  *crossroads.Engine
	Message string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Mode    string
	// Render prints the message as markdown before the dialog.
	Render bool
	Width  int
	Logger *slog.Logger
}

// RunAsk parses the message, collects the operator's answers and prints the reply.
func RunAsk(ctx context.Context, opts AskOptions) (runner.Result, error) {
	if opts.Engine == nil {
		opts.Engine = crossroads.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Width <= 0 {
		opts.Width = terminalWidth(opts.Stderr, runner.DefaultWidth)
	}

	round, ok := opts.Engine.Parse(ctx, opts.Message)
	if !ok {
		return runner.Result{}, ErrNoDecisionPoints
	}

	mode, err := resolveMode(opts.Mode, opts.Stdin, opts.Stderr)
	if err != nil {
		return runner.Result{}, err
	}
	opts.Logger.Debug("Starting decision dialog", "mode", mode, "questions", len(round.Questions))

	var header string
	if opts.Render && mode != ModeJSON {
		header, err = renderMessage(opts.Message, opts.Width, mode == ModeTUI)
		if err != nil {
			opts.Logger.Warn("Failed to render message", "err", err)
		}
		if mode == ModeLine {
			_, _ = io.WriteString(opts.Stderr, header)
		}
	}

	d, err := opts.Engine.NewDialog(round)
	if err != nil {
		return runner.Result{}, err
	}

	var res runner.Result
	switch mode {
	case ModeTUI:
		res, err = runnertui.Run(ctx, d, runnertui.Options{
			Input:  opts.Stdin,
			Output: opts.Stderr,
			Model:  []runnertui.ModelOption{runnertui.WithHeader(header)},
		})
	case ModeJSON:
		r := runner.NewRunner(
			runner.WithLogger(opts.Logger),
			runner.WithInputHandler(runner.NewJSONHandler(opts.Stdin, opts.Stdout)),
		)
		res, err = r.Run(ctx, d)
	default:
		r := runner.NewRunner(
			runner.WithLogger(opts.Logger),
			runner.WithInputHandler(runner.NewTextHandler(opts.Stdin, opts.Stderr,
				runner.WithTextHandlerWidth(opts.Width))),
		)
		res, err = r.Run(ctx, d)
	}
	if err != nil {
		return res, err
	}

	return res, writeResult(opts.Stdout, opts.Stderr, mode, res)
}

func resolveMode(mode string, stdin io.Reader, stderr io.Writer) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "", ModeAuto:
		if IsTerminal(stdin) && IsTerminal(stderr) {
			return ModeTUI, nil
		}
		return ModeLine, nil
	case ModeTUI, ModeLine, ModeJSON:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want auto, tui, line or json)", mode)
	}
}

// renderMessage formats the agent message as markdown, styled for a terminal or plain.
func renderMessage(message string, width int, styled bool) (string, error) {
	newRenderer := tui.NewPlainRenderer
	if styled {
		newRenderer = tui.NewRenderer
	}
	render, err := newRenderer(width)
	if err != nil {
		return "", err
	}
	return render(message)
}

func writeResult(stdout, stderr io.Writer, mode string, res runner.Result) error {
	if mode == ModeJSON {
		return json.NewEncoder(stdout).Encode(struct {
			Type string `json:"type"`
			runner.Result
		}{Type: "result", Result: res})
	}
	if !res.Submitted {
		printSystemMessage(stderr, "Cancelled.")
		return nil
	}
	_, err := fmt.Fprintln(stdout, res.Reply)
	return err
}
