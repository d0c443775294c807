package main

import (
	"github.com/spf13/cobra"

	"github.com/adambuttrick/triage-tool/internal/fuzzy"
	"github.com/adambuttrick/triage-tool/internal/observability"
)

var scoreCommand = &cobra.Command{
	Use:   "score <a> <b>",
	Short: "Print the normalized similarity of two organization names",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b := args[0], args[1]
		normA, normB := fuzzy.Normalize(a), fuzzy.Normalize(b)
		observability.NewPrinter(cmd.OutOrStdout()).PrintScore(a, b, normA, normB, fuzzy.Ratio(normA, normB))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCommand)
}
