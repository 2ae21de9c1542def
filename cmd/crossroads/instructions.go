package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads/pkg/adapters/loam"
	"github.com/aretw0/crossroads/pkg/domain"
)

var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "Print the developer instructions for the dialect",
	Long: `Prints the developer-instruction block that teaches the agent the decision-point
contract. With --conversation, reads the transcript repository and prints the
conversation as JSON with the block injected according to the configured mode.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conversation, _ := cmd.Flags().GetBool("conversation")

		engine, err := newEngine("")
		if err != nil {
			return err
		}
		if !conversation {
			_, err := fmt.Fprint(cmd.OutOrStdout(), engine.Instructions())
			return err
		}

		dir := cfg.Transcripts.Dir
		if dir == "" {
			dir = "."
		}
		source, err := loam.Open(dir)
		if err != nil {
			return err
		}
		msgs, err := source.Conversation(cmd.Context())
		if err != nil {
			return err
		}
		mode, err := domain.ParseInteractionMode(cfg.Mode)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(engine.Inject(msgs, mode))
	},
}

func init() {
	rootCmd.AddCommand(instructionsCmd)

	instructionsCmd.Flags().Bool("conversation", false, "Print the transcript conversation with the instructions injected")
}
