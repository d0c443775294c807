package triage

import (
	"context"
	"sync/atomic"

	"github.com/adambuttrick/triage-tool/internal/issues"
	"github.com/adambuttrick/triage-tool/internal/types"
)

type fakeWikidata struct {
	entry *types.WikidataEntry
	err   error
}

func (f fakeWikidata) Lookup(context.Context, string) (*types.WikidataEntry, error) {
	return f.entry, f.err
}

type fakeROR struct {
	matches []types.Match
	err     error
}

func (f fakeROR) Search(context.Context, string) ([]types.Match, error) {
	return f.matches, f.err
}

type fakeFunder struct {
	match *types.Match
	err   error
}

func (f fakeFunder) Lookup(context.Context, string) (*types.Match, error) {
	return f.match, f.err
}

type fakeAffiliations struct {
	urls  []string
	err   error
	calls *atomic.Int32
}

func (f fakeAffiliations) Affiliations(context.Context, string) ([]string, error) {
	if f.calls != nil {
		f.calls.Add(1)
	}
	return f.urls, f.err
}

type fakeIssues struct {
	result     *issues.Result
	err        error
	registryID *string
}

func (f fakeIssues) Check(_ context.Context, _, registryID string) (*issues.Result, error) {
	if f.registryID != nil {
		*f.registryID = registryID
	}
	if f.result == nil && f.err == nil {
		return &issues.Result{}, nil
	}
	return f.result, f.err
}

func crossrefMatch(id string) *types.Match {
	m := types.Match{Source: types.SourceCrossref, ID: id, Name: "Test Org Foundation", Type: types.MatchName}.Scored(96)
	return &m
}

// emptySources returns sources that all answer with nothing.
func emptySources() Sources {
	return Sources{
		Wikidata: fakeWikidata{},
		ROR:      fakeROR{},
		Crossref: fakeFunder{},
		Scholar:  fakeAffiliations{},
		ORCID:    fakeAffiliations{},
		Issues:   fakeIssues{},
	}
}
