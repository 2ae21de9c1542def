package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads/internal/cli"
)

var parseCmd = &cobra.Command{
	Use:   "parse [message-file]",
	Short: "Extract the decision round from an agent message",
	Long: `Prints a summary of the decision round found in the message, or the round
as JSON with --json. Exits with status 2 when the message has no decision points.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, _ := cmd.Flags().GetString("doc")
		asJSON, _ := cmd.Flags().GetBool("json")

		src := cli.MessageSource{Doc: docID, Dir: cfg.Transcripts.Dir}
		if len(args) > 0 {
			src.File = args[0]
		}
		msg, err := cli.ReadMessage(cmd.Context(), src, os.Stdin)
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

		round, ok := engine.Parse(cmd.Context(), msg.Text)
		if !ok {
			return &exitError{code: 2, err: cli.ErrNoDecisionPoints}
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(round)
		}
		cli.DescribeRound(cmd.OutOrStdout(), round)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().String("doc", "", "Transcript document ID to read instead of a file ('latest' for the newest assistant message)")
	parseCmd.Flags().Bool("json", false, "Print the round as JSON")
}
