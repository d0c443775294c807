// Package main provides the entry point for the organization triage CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Organization registry triage",
	Long: `Triage checks a candidate organization name against Wikidata, ROR, Crossref funders, ORCID, Google Scholar and the registry's GitHub request tracker, and writes a flat report for a curator.

Configuration can be loaded from a JSON file using --config. Environment variables (TRIAGE_*, GITHUB_USER, GITHUB_TOKEN) override the file; flags override both.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
