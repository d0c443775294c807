package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adambuttrick/triage-tool/internal/config"
	"github.com/adambuttrick/triage-tool/internal/observability"
)

var issuesCommand = &cobra.Command{
	Use:   "issues <name> [registry-id]",
	Short: "Scan the request tracker for earlier requests of a candidate",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runIssuesCmd,
}

var (
	issuesLabel string
	issuesPages int
)

func init() {
	issuesCommand.Flags().StringVar(&issuesLabel, "label", "", "Label of new-record requests (default \"new record\")")
	issuesCommand.Flags().IntVar(&issuesPages, "pages", 0, "Pages per issue state to scan (default 9)")

	rootCmd.AddCommand(issuesCommand)
}

func runIssuesCmd(cmd *cobra.Command, args []string) error {
	name := args[0]
	var registryID string
	if len(args) == 2 {
		registryID = args[1]
	}

	var overrides config.Config
	if cmd.Flags().Changed("label") {
		overrides.IssueLabel = issuesLabel
	}
	if cmd.Flags().Changed("pages") {
		overrides.IssuePages = issuesPages
	}

	cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	printer := observability.NewPrinter(cmd.OutOrStdout())

	result, err := newIssueChecker(cfg, logger).Check(cmd.Context(), name, registryID)
	if err != nil {
		return fmt.Errorf("issue scan failed: %w", err)
	}

	for _, req := range result.PriorRequests {
		printer.PriorRequest(name, req)
	}
	printer.PrintIssueScan(name, result.PriorRequests, result.References)
	return nil
}
