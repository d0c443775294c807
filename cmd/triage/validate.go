package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adambuttrick/triage-tool/internal/schemas"
)

var validateCommand = &cobra.Command{
	Use:   "validate <report.json>",
	Short: "Validate a JSON triage report against the report schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := schemas.ValidateReportFile(args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid triage report\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCommand)
}
