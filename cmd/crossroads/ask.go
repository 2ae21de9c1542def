package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads"
	"github.com/aretw0/crossroads/internal/cli"
	"github.com/aretw0/crossroads/internal/presentation/tui"
)

var askCmd = &cobra.Command{
	Use:   "ask [message-file]",
	Short: "Answer the decision points of an agent message",
	Long: `Parses the agent message, shows its decision points as a dialog and prints
the encoded reply on stdout. The dialog itself is drawn on stderr.

The message is read from the file argument, from stdin ("-" or no argument)
or, with --doc, from a transcript repository ("--doc latest" picks the newest
assistant message).

Modes:
- auto (default): the inline terminal dialog on a TTY, line mode otherwise.
- tui: the inline terminal dialog.
- line: numbered commands, one per line.
- json: JSON Lines frames and events on stdout/stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, _ := cmd.Flags().GetString("doc")
		mode, _ := cmd.Flags().GetString("mode")
		render, _ := cmd.Flags().GetBool("render")
		width, _ := cmd.Flags().GetInt("width")

		src := cli.MessageSource{Doc: docID, Dir: cfg.Transcripts.Dir}
		if len(args) > 0 {
			src.File = args[0]
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		msg, err := cli.ReadMessage(sigCtx, src, os.Stdin)
		if err != nil {
			return err
		}

		override := ""
		if !cmd.Flags().Changed("dialect") {
			override = msg.Dialect
		}
		engine, err := newEngine(override)
		if err != nil {
			return err
		}

		if mode != cli.ModeJSON && cli.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr, crossroads.Version)
		}

		res, err := cli.RunAsk(sigCtx, cli.AskOptions{
			Engine:  engine,
			Message: msg.Text,
			Stdin:   os.Stdin,
			Stdout:  cmd.OutOrStdout(),
			Stderr:  os.Stderr,
			Mode:    mode,
			Render:  render,
			Width:   width,
			Logger:  logger,
		})
		if err != nil {
			if cli.IsInterrupted(err) {
				logger.Info("Interrupted", "signal", sigCtx.Signal())
				return &exitError{code: 130, err: err, quiet: true}
			}
			if errors.Is(err, cli.ErrNoDecisionPoints) {
				return &exitError{code: 2, err: err}
			}
			return err
		}
		if !res.Submitted && mode != cli.ModeJSON {
			return &exitError{code: 3, err: errCancelled, quiet: true}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().String("doc", "", "Transcript document ID to read instead of a file ('latest' for the newest assistant message)")
	askCmd.Flags().String("mode", cli.ModeAuto, "Interaction mode: auto, tui, line or json")
	askCmd.Flags().Bool("render", true, "Render the message as markdown before the dialog")
	askCmd.Flags().Int("width", 0, "Render width (default: terminal width)")
}
