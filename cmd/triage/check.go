package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adambuttrick/triage-tool/internal/config"
	"github.com/adambuttrick/triage-tool/internal/observability"
	"github.com/adambuttrick/triage-tool/internal/triage"
)

var checkCommand = &cobra.Command{
	Use:   "check <name> [registry-id]",
	Short: "Check a candidate organization against every source and write a report",
	Long: `Searches Wikidata, ROR, Crossref funders, Google Scholar and ORCID for the candidate name, then scans the request tracker for earlier requests.

When a registry id is given, tracker issues whose body or comments mention it are listed under issue_references.

The report is written only when at least one source returned data.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheckCmd,
}

var (
	checkOut        string
	checkFormat     string
	checkParallel   bool
	checkUseBrowser bool
	checkSummary    bool
)

func init() {
	checkCommand.Flags().StringVarP(&checkOut, "out", "o", "", "Report path (default triage_result.txt in the working directory)")
	checkCommand.Flags().StringVarP(&checkFormat, "format", "f", "", "Report format: text, json, yaml (default text)")
	checkCommand.Flags().BoolVar(&checkParallel, "parallel", false, "Query the registries concurrently")
	checkCommand.Flags().BoolVar(&checkUseBrowser, "use-browser", false, "Retry blocked Google Scholar pages in headless Chrome (requires Chrome)")
	checkCommand.Flags().BoolVar(&checkSummary, "summary", false, "Print a summary of all matches")

	rootCmd.AddCommand(checkCommand)
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	name := args[0]
	var registryID string
	if len(args) == 2 {
		registryID = args[1]
	}

	var overrides config.Config
	if cmd.Flags().Changed("out") {
		overrides.Output = checkOut
	}
	if cmd.Flags().Changed("format") {
		overrides.Format = checkFormat
	}
	overrides.Parallel = checkParallel
	overrides.UseBrowser = checkUseBrowser

	cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	printer := observability.NewPrinter(cmd.OutOrStdout())
	runner := triage.NewRunner(newSources(cfg, logger), triage.Options{Parallel: cfg.Parallel}, printer, logger)

	res, err := runner.Run(cmd.Context(), name, registryID)
	if err != nil {
		return fmt.Errorf("triage of %q failed: %w", name, err)
	}

	if checkSummary {
		printer.PrintMatches(res.Matches())
	}

	written, err := triage.WriteFile(cfg.Output, triage.NewReport(res), cfg.Format)
	if err != nil {
		return err
	}
	if !written {
		printer.NoMetadata(name)
		return nil
	}
	printer.ReportWritten(cfg.Output)
	logger.Debug().Str("run_id", res.RunID).Str("path", cfg.Output).Str("format", cfg.Format).Msg("report saved")
	return nil
}
