// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/adambuttrick/triage-tool/internal/crossref"
	"github.com/adambuttrick/triage-tool/internal/fetch"
	"github.com/adambuttrick/triage-tool/internal/issues"
	"github.com/adambuttrick/triage-tool/internal/orcid"
	"github.com/adambuttrick/triage-tool/internal/ror"
	"github.com/adambuttrick/triage-tool/internal/scholar"
	"github.com/adambuttrick/triage-tool/internal/wikidata"
)

// EnvPrefix prefixes every environment override, e.g. TRIAGE_FORMAT.
const EnvPrefix = "TRIAGE"

// DefaultOutput is the report file name, relative to the working directory.
const DefaultOutput = "triage_result.txt"

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Issue tracker
	GitHubUser   string `json:"github_user,omitempty"`
	GitHubToken  string `json:"github_token,omitempty"`
	GitHubAPIURL string `json:"github_api_url,omitempty" validate:"omitempty,url"`
	IssueOwner   string `json:"issue_owner,omitempty"`
	IssueRepo    string `json:"issue_repo,omitempty"`
	IssueLabel   string `json:"issue_label,omitempty"`
	IssuePages   int    `json:"issue_pages,omitempty" validate:"gte=0,lte=100"`

	// Source endpoints
	WikidataURL string `json:"wikidata_url,omitempty" validate:"omitempty,url"`
	RORURL      string `json:"ror_url,omitempty" validate:"omitempty,url"`
	CrossrefURL string `json:"crossref_url,omitempty" validate:"omitempty,url"`
	ORCIDURL    string `json:"orcid_url,omitempty" validate:"omitempty,url"`
	ScholarURL  string `json:"scholar_url,omitempty" validate:"omitempty,url"`

	// HTTP
	UserAgent      string `json:"user_agent,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"gte=0"`

	// Output
	Output string `json:"output,omitempty"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=text json yaml"`

	// Behavior
	Parallel   bool   `json:"parallel,omitempty"`
	UseBrowser bool   `json:"use_browser,omitempty"` // Retry blocked Scholar pages in headless Chrome
	LogLevel   string `json:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error disabled"`
	LogFormat  string `json:"log_format,omitempty" validate:"omitempty,oneof=auto json console"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		GitHubAPIURL:   issues.DefaultAPIURL,
		IssueOwner:     issues.DefaultOwner,
		IssueRepo:      issues.DefaultRepo,
		IssueLabel:     issues.DefaultLabel,
		IssuePages:     issues.DefaultPages,
		WikidataURL:    wikidata.DefaultBaseURL,
		RORURL:         ror.DefaultBaseURL,
		CrossrefURL:    crossref.DefaultBaseURL,
		ORCIDURL:       orcid.DefaultBaseURL,
		ScholarURL:     scholar.DefaultBaseURL,
		UserAgent:      fetch.DefaultUserAgent,
		TimeoutSeconds: int(fetch.DefaultTimeout / time.Second),
		Output:         DefaultOutput,
		Format:         FormatText,
		LogLevel:       "info",
		LogFormat:      "auto",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads overrides from the environment. Keys are the JSON field
// names upper-cased under EnvPrefix (TRIAGE_ISSUE_REPO, TRIAGE_PARALLEL).
// The tracker credentials are also read from bare GITHUB_USER and
// GITHUB_TOKEN.
func FromEnv(v *viper.Viper) Config {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("github_user", EnvPrefix+"_GITHUB_USER", "GITHUB_USER")
	_ = v.BindEnv("github_token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")

	return Config{
		GitHubUser:     v.GetString("github_user"),
		GitHubToken:    v.GetString("github_token"),
		GitHubAPIURL:   v.GetString("github_api_url"),
		IssueOwner:     v.GetString("issue_owner"),
		IssueRepo:      v.GetString("issue_repo"),
		IssueLabel:     v.GetString("issue_label"),
		IssuePages:     v.GetInt("issue_pages"),
		WikidataURL:    v.GetString("wikidata_url"),
		RORURL:         v.GetString("ror_url"),
		CrossrefURL:    v.GetString("crossref_url"),
		ORCIDURL:       v.GetString("orcid_url"),
		ScholarURL:     v.GetString("scholar_url"),
		UserAgent:      v.GetString("user_agent"),
		TimeoutSeconds: v.GetInt("timeout_seconds"),
		Output:         v.GetString("output"),
		Format:         v.GetString("format"),
		Parallel:       v.GetBool("parallel"),
		UseBrowser:     v.GetBool("use_browser"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Owner and repo only make sense together
	if (c.IssueOwner == "") != (c.IssueRepo == "") {
		return fmt.Errorf("config error: 'issue_owner' and 'issue_repo' must be set together")
	}
	if c.GitHubToken != "" && c.GitHubUser == "" {
		return fmt.Errorf("config error: 'github_token' requires 'github_user'")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Layers are merged from the highest precedence down: flags, then
// environment, then the config file, then Defaults().
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	strs := []struct {
		dst *string
		src string
	}{
		{&result.GitHubUser, defaults.GitHubUser},
		{&result.GitHubToken, defaults.GitHubToken},
		{&result.GitHubAPIURL, defaults.GitHubAPIURL},
		{&result.IssueOwner, defaults.IssueOwner},
		{&result.IssueRepo, defaults.IssueRepo},
		{&result.IssueLabel, defaults.IssueLabel},
		{&result.WikidataURL, defaults.WikidataURL},
		{&result.RORURL, defaults.RORURL},
		{&result.CrossrefURL, defaults.CrossrefURL},
		{&result.ORCIDURL, defaults.ORCIDURL},
		{&result.ScholarURL, defaults.ScholarURL},
		{&result.UserAgent, defaults.UserAgent},
		{&result.Output, defaults.Output},
		{&result.Format, defaults.Format},
		{&result.LogLevel, defaults.LogLevel},
		{&result.LogFormat, defaults.LogFormat},
	}
	for _, s := range strs {
		if *s.dst == "" {
			*s.dst = s.src
		}
	}

	// Int fields: use default if zero
	if result.IssuePages == 0 {
		result.IssuePages = defaults.IssuePages
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: a true anywhere wins
	result.Parallel = result.Parallel || defaults.Parallel
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser

	return result
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return fetch.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FetchOptions returns the HTTP options shared by every source client.
func (c *Config) FetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = c.Timeout()
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	return opts
}

// Resolve layers flags over environment over the optional JSON file over
// defaults, then validates the result.
func Resolve(flags Config, path string, v *viper.Viper) (Config, error) {
	merged := flags.MergeWithDefaults(FromEnv(v))
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		merged = merged.MergeWithDefaults(*fileCfg)
	}
	merged = merged.MergeWithDefaults(Defaults())

	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
