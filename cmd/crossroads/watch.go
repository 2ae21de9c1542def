package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads/internal/cli"
)

var watchCmd = &cobra.Command{
	Use:   "watch <message-file>",
	Short: "Re-parse a message file every time it changes",
	Long: `Watches a message file while you draft agent instructions or test prompts,
printing the decision round found after each save.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		engine, err := newEngine("")
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.RunWatch(sigCtx, cli.WatchOptions{
			Engine:   engine,
			Path:     args[0],
			Output:   cmd.OutOrStdout(),
			JSON:     asJSON,
			Debounce: debounce,
			Logger:   logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("json", false, "Print one JSON report per change")
	watchCmd.Flags().Duration("debounce", cli.DefaultDebounce, "Quiet period before re-parsing")
}
