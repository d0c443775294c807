package issues

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adambuttrick/triage-tool/internal/fuzzy"
	"github.com/adambuttrick/triage-tool/internal/types"
)

// Defaults for the registry's request tracker.
const (
	DefaultOwner   = "ror-community"
	DefaultRepo    = "ror-updates"
	DefaultLabel   = "new record"
	DefaultPages   = 9
	DefaultPerPage = 100
	// DuplicateThreshold is the normalized ratio above which an earlier
	// request counts as the same organization.
	DuplicateThreshold = 90
)

// DefaultStates are scanned in order.
var DefaultStates = []string{"open", "closed"}

// Tracker is the issue source the checker pages through.
type Tracker interface {
	ListIssues(ctx context.Context, state string, page, perPage int) ([]types.Issue, error)
	Comments(ctx context.Context, issue types.Issue) ([]string, error)
}

// Options control which issues are scanned.
type Options struct {
	Label   string
	States  []string
	Pages   int
	PerPage int
}

// DefaultOptions returns the settings used for the registry tracker.
func DefaultOptions() Options {
	return Options{
		Label:   DefaultLabel,
		States:  DefaultStates,
		Pages:   DefaultPages,
		PerPage: DefaultPerPage,
	}
}

// Result is the outcome of one scan.
type Result struct {
	// PriorRequests are new-record issues whose parsed name is close to the candidate.
	PriorRequests []types.PriorRequest
	// References are the URLs of issues whose body or comments mention the registry id.
	References []string
	// Skipped counts new-record issues whose titles could not be parsed.
	Skipped int
}

// Matches returns the scan as source matches: a name match per prior
// request and an exact-id match per reference.
func (r *Result) Matches() []types.Match {
	var out []types.Match
	for _, p := range r.PriorRequests {
		m := types.Match{Source: types.SourceGitHub, ID: p.URL, Name: p.Name, Type: types.MatchName}
		out = append(out, m.Scored(p.Score))
	}
	for _, ref := range r.References {
		out = append(out, types.Match{Source: types.SourceGitHub, ID: ref, Type: types.MatchExactID})
	}
	return out
}

// Checker cross-checks a candidate against the tracker.
type Checker struct {
	tracker Tracker
	opts    Options
	logger  zerolog.Logger
}

// NewChecker creates a checker. Zero-valued options fall back to defaults.
func NewChecker(tracker Tracker, opts Options, logger zerolog.Logger) *Checker {
	def := DefaultOptions()
	if opts.Label == "" {
		opts.Label = def.Label
	}
	if len(opts.States) == 0 {
		opts.States = def.States
	}
	if opts.Pages <= 0 {
		opts.Pages = def.Pages
	}
	if opts.PerPage <= 0 {
		opts.PerPage = def.PerPage
	}
	return &Checker{
		tracker: tracker,
		opts:    opts,
		logger:  logger.With().Str("source", string(types.SourceGitHub)).Logger(),
	}
}

type proposal struct {
	number int
	name   string
	url    string
}

// Check pages through every configured state and page. New-record issues
// contribute their parsed title names, which are then scored against name.
// When registryID is not empty, each issue's body and comments are searched
// for it verbatim. A title that cannot be parsed is logged and skipped.
func (c *Checker) Check(ctx context.Context, name, registryID string) (*Result, error) {
	c.logger.Info().Str("name", name).Msg("searching existing issues")

	result := &Result{}
	var proposals []proposal
	seen := make(map[int]bool)

	for _, state := range c.opts.States {
		for page := 1; page <= c.opts.Pages; page++ {
			batch, err := c.tracker.ListIssues(ctx, state, page, c.opts.PerPage)
			if err != nil {
				return nil, err
			}
			if len(batch) == 0 {
				break
			}
			for _, issue := range batch {
				if registryID != "" {
					found, err := c.mentions(ctx, issue, registryID)
					if err != nil {
						return nil, err
					}
					if found {
						result.References = append(result.References, issue.URL)
					}
				}

				if !issue.HasLabel(c.opts.Label) || seen[issue.Number] {
					continue
				}
				orgName, ok := ParseTitleName(issue.Title)
				if !ok {
					result.Skipped++
					c.logger.Warn().Int("issue", issue.Number).Msg("unable to check against issue, title cannot be parsed")
					continue
				}
				seen[issue.Number] = true
				proposals = append(proposals, proposal{number: issue.Number, name: orgName, url: issue.URL})
			}
		}
	}

	normalized := fuzzy.Normalize(name)
	for _, p := range proposals {
		score := fuzzy.Ratio(normalized, fuzzy.Normalize(p.name))
		if score > DuplicateThreshold {
			result.PriorRequests = append(result.PriorRequests, types.PriorRequest{
				IssueNumber: p.number,
				Name:        p.name,
				URL:         p.url,
				Score:       score,
			})
		}
	}

	c.logger.Info().
		Int("prior_requests", len(result.PriorRequests)).
		Int("references", len(result.References)).
		Int("skipped", result.Skipped).
		Msg("issue scan complete")
	return result, nil
}

func (c *Checker) mentions(ctx context.Context, issue types.Issue, registryID string) (bool, error) {
	if strings.Contains(issue.Text, registryID) {
		return true, nil
	}
	comments, err := c.tracker.Comments(ctx, issue)
	if err != nil {
		return false, err
	}
	for _, body := range comments {
		if strings.Contains(body, registryID) {
			return true, nil
		}
	}
	return false, nil
}
