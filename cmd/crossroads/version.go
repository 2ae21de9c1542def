package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of crossroads",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "crossroads version %s\n", strings.TrimSpace(crossroads.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
