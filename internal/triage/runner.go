// Package triage runs every registry check for a candidate organization
// and merges the answers into one report.
package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/adambuttrick/triage-tool/internal/issues"
	"github.com/adambuttrick/triage-tool/internal/observability"
	"github.com/adambuttrick/triage-tool/internal/types"
	"github.com/adambuttrick/triage-tool/internal/wikidata"
)

// WikidataMatcher finds the best Wikidata entity for a name.
type WikidataMatcher interface {
	Lookup(ctx context.Context, name string) (*types.WikidataEntry, error)
}

// RORMatcher lists existing ROR records that match a name.
type RORMatcher interface {
	Search(ctx context.Context, name string) ([]types.Match, error)
}

// FunderMatcher selects a Crossref funder for a name.
type FunderMatcher interface {
	Lookup(ctx context.Context, name string) (*types.Match, error)
}

// AffiliationMatcher returns profile URLs of people affiliated with a name.
type AffiliationMatcher interface {
	Affiliations(ctx context.Context, name string) ([]string, error)
}

// IssueChecker scans the request tracker.
type IssueChecker interface {
	Check(ctx context.Context, name, registryID string) (*issues.Result, error)
}

// Sources are the collaborators of a run. A nil source is skipped.
type Sources struct {
	Wikidata WikidataMatcher
	ROR      RORMatcher
	Crossref FunderMatcher
	Scholar  AffiliationMatcher
	ORCID    AffiliationMatcher
	Issues   IssueChecker
}

// Results holds each source's answer for one candidate.
type Results struct {
	RunID      string
	Name       string
	RegistryID string
	Wikidata   *types.WikidataEntry
	// WikidataRejected is the closest Wikidata candidate when its entity
	// had no claims.
	WikidataRejected *types.WikidataCandidate
	ROR              []types.Match
	Crossref         *types.Match
	Scholar          []string
	ORCID            []string
	Issues           *issues.Result
}

// Matches flattens the identifier matches in source order. Affiliation
// usage is not a match and is left out.
func (r *Results) Matches() []types.Match {
	var out []types.Match
	if r.Wikidata != nil {
		out = append(out, r.Wikidata.Match())
	}
	out = append(out, r.ROR...)
	if r.Crossref != nil {
		out = append(out, *r.Crossref)
	}
	if r.Issues != nil {
		out = append(out, r.Issues.Matches()...)
	}
	return out
}

// Options control how a run is executed.
type Options struct {
	// Parallel fans the five registry matchers out concurrently. Output is
	// the same as a sequential run.
	Parallel bool
}

// Runner executes triage runs.
type Runner struct {
	sources Sources
	opts    Options
	printer *observability.Printer
	logger  zerolog.Logger
}

// NewRunner creates a runner. printer receives operator notices.
func NewRunner(sources Sources, opts Options, printer *observability.Printer, logger zerolog.Logger) *Runner {
	return &Runner{sources: sources, opts: opts, printer: printer, logger: logger}
}

// Run checks name against every source. registryID, when set, is searched
// for verbatim in tracker issues. Source errors end the run.
func (r *Runner) Run(ctx context.Context, name, registryID string) (*Results, error) {
	res := &Results{
		RunID:      uuid.New().String(),
		Name:       name,
		RegistryID: registryID,
	}
	logger := r.logger.With().Str("run_id", res.RunID).Logger()
	logger.Info().Str("name", name).Bool("parallel", r.opts.Parallel).Msg("starting triage")

	var err error
	if r.opts.Parallel {
		err = r.matchParallel(ctx, name, res)
	} else {
		err = r.matchSequential(ctx, name, res)
	}
	if err != nil {
		return nil, err
	}
	r.announce(res)

	if r.sources.Issues != nil {
		scan, err := r.sources.Issues.Check(ctx, name, registryID)
		if err != nil {
			return nil, fmt.Errorf("issue tracker: %w", err)
		}
		res.Issues = scan
		for _, req := range scan.PriorRequests {
			r.printer.PriorRequest(name, req)
		}
		for _, ref := range scan.References {
			r.printer.IssueReference(registryID, ref)
		}
	}

	logger.Info().Int("matches", len(res.Matches())).Msg("triage complete")
	return res, nil
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

func (r *Runner) steps(name string, res *Results, mu *sync.Mutex) []step {
	set := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	var steps []step
	if s := r.sources.Wikidata; s != nil {
		steps = append(steps, step{"wikidata", func(ctx context.Context) error {
			entry, err := s.Lookup(ctx, name)
			var noClaims *wikidata.NoClaimsError
			if errors.As(err, &noClaims) {
				set(func() { res.WikidataRejected = &noClaims.Candidate })
				return nil
			}
			set(func() { res.Wikidata = entry })
			return err
		}})
	}
	if s := r.sources.ROR; s != nil {
		steps = append(steps, step{"ror", func(ctx context.Context) error {
			matches, err := s.Search(ctx, name)
			set(func() { res.ROR = matches })
			return err
		}})
	}
	if s := r.sources.Crossref; s != nil {
		steps = append(steps, step{"crossref", func(ctx context.Context) error {
			match, err := s.Lookup(ctx, name)
			set(func() { res.Crossref = match })
			return err
		}})
	}
	if s := r.sources.Scholar; s != nil {
		steps = append(steps, step{"google scholar", func(ctx context.Context) error {
			urls, err := s.Affiliations(ctx, name)
			set(func() { res.Scholar = urls })
			return err
		}})
	}
	if s := r.sources.ORCID; s != nil {
		steps = append(steps, step{"orcid", func(ctx context.Context) error {
			urls, err := s.Affiliations(ctx, name)
			set(func() { res.ORCID = urls })
			return err
		}})
	}
	return steps
}

func (r *Runner) matchSequential(ctx context.Context, name string, res *Results) error {
	var mu sync.Mutex
	for _, s := range r.steps(name, res, &mu) {
		if err := s.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (r *Runner) matchParallel(ctx context.Context, name string, res *Results) error {
	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	for _, s := range r.steps(name, res, &mu) {
		g.Go(func() error {
			if err := s.run(gCtx); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// announce prints the per-source notices in source order.
func (r *Runner) announce(res *Results) {
	if r.sources.Wikidata != nil {
		if res.WikidataRejected != nil {
			r.printer.WikidataRejected(res.Name, *res.WikidataRejected)
		} else {
			r.printer.WikidataMatch(res.Name, res.Wikidata)
		}
	}
	if r.sources.ROR != nil {
		r.printer.RORMatches(res.Name, res.ROR)
	}
	if r.sources.Scholar != nil && len(res.Scholar) == 0 {
		r.printer.NoScholarAffiliations()
	}
	if r.sources.ORCID != nil && len(res.ORCID) == 0 {
		r.printer.NoORCIDAffiliations()
	}
}
