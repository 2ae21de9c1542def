package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crossroads/pkg/codec"
	"github.com/aretw0/crossroads/pkg/domain"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode answers as the reply the agent expects",
	Long: `Reads a round (as printed by "parse --json") and a JSON array of answers
such as [{"selected":[1]},{"free_text":"use a queue"}], and prints the reply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roundFile, _ := cmd.Flags().GetString("round")
		answersFile, _ := cmd.Flags().GetString("answers")

		round, err := readRound(roundFile)
		if err != nil {
			return err
		}
		var answers []domain.Answer
		if err := readJSON(answersFile, &answers); err != nil {
			return err
		}
		if err := codec.Validate(round, answers); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(round, answers))
		return err
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [reply-file]",
	Short: "Decode a reply back into answers",
	Long:  `Reads a round and a reply (from the file argument or stdin) and prints the answers as JSON.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roundFile, _ := cmd.Flags().GetString("round")

		round, err := readRound(roundFile)
		if err != nil {
			return err
		}
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		reply, err := readInput(path)
		if err != nil {
			return err
		}

		answers, err := codec.Decode(round, string(reply))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(answers)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)

	encodeCmd.Flags().String("round", "", "Round JSON file")
	encodeCmd.Flags().String("answers", "-", "Answers JSON file ('-' for stdin)")
	_ = encodeCmd.MarkFlagRequired("round")

	decodeCmd.Flags().String("round", "", "Round JSON file")
	_ = decodeCmd.MarkFlagRequired("round")
}

func readRound(path string) (domain.Round, error) {
	var round domain.Round
	if err := readJSON(path, &round); err != nil {
		return domain.Round{}, err
	}
	if err := round.Validate(); err != nil {
		return domain.Round{}, err
	}
	return round, nil
}

func readJSON(path string, v any) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
