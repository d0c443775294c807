package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adambuttrick/triage-tool/internal/config"
	"github.com/adambuttrick/triage-tool/internal/crossref"
	"github.com/adambuttrick/triage-tool/internal/issues"
	"github.com/adambuttrick/triage-tool/internal/logging"
	"github.com/adambuttrick/triage-tool/internal/orcid"
	"github.com/adambuttrick/triage-tool/internal/ror"
	"github.com/adambuttrick/triage-tool/internal/scholar"
	"github.com/adambuttrick/triage-tool/internal/triage"
	"github.com/adambuttrick/triage-tool/internal/wikidata"
)

// Flags shared by every subcommand
var (
	configPath     string
	logLevel       string
	logFormat      string
	timeoutSeconds int
	userAgent      string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by env and flags)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled (default info)")
	flags.StringVar(&logFormat, "log-format", "", "Log format: auto, json, console (default auto)")
	flags.IntVar(&timeoutSeconds, "timeout", 0, "HTTP timeout in seconds (default 30)")
	flags.StringVar(&userAgent, "user-agent", "", "User agent sent to every source")
}

// loadConfig resolves the configuration for cmd. overrides holds the
// values of subcommand flags that were set explicitly.
func loadConfig(cmd *cobra.Command, overrides config.Config) (config.Config, error) {
	flags := overrides
	if cmd.Flags().Changed("log-level") {
		flags.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		flags.LogFormat = logFormat
	}
	if cmd.Flags().Changed("timeout") {
		flags.TimeoutSeconds = timeoutSeconds
	}
	if cmd.Flags().Changed("user-agent") {
		flags.UserAgent = userAgent
	}
	return config.Resolve(flags, configPath, viper.New())
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logging.New(&logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stderr",
	})
}

func newIssueChecker(cfg config.Config, logger zerolog.Logger) *issues.Checker {
	tracker := issues.NewGitHubClient(cfg.GitHubAPIURL, cfg.IssueOwner, cfg.IssueRepo,
		issues.Credentials{User: cfg.GitHubUser, Token: cfg.GitHubToken}, cfg.FetchOptions(), logger)
	return issues.NewChecker(tracker, issues.Options{
		Label: cfg.IssueLabel,
		Pages: cfg.IssuePages,
	}, logger)
}

func newSources(cfg config.Config, logger zerolog.Logger) triage.Sources {
	opts := cfg.FetchOptions()

	scholarClient := scholar.NewClient(cfg.ScholarURL, opts, logger)
	scholarClient.UseBrowser = cfg.UseBrowser
	scholarClient.BrowserTimeout = cfg.Timeout()

	return triage.Sources{
		Wikidata: wikidata.NewClient(cfg.WikidataURL, opts, logger),
		ROR:      ror.NewClient(cfg.RORURL, opts, logger),
		Crossref: crossref.NewClient(cfg.CrossrefURL, opts, logger),
		Scholar:  scholarClient,
		ORCID:    orcid.NewClient(cfg.ORCIDURL, opts, logger),
		Issues:   newIssueChecker(cfg, logger),
	}
}
