// Package types provides type definitions for structured data used throughout the triage tool.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Source identifies the external registry a match came from.
type Source string

const (
	SourceWikidata Source = "wikidata"
	SourceROR      Source = "ror"
	SourceCrossref Source = "crossref"
	SourceORCID    Source = "orcid"
	SourceScholar  Source = "google_scholar"
	SourceGitHub   Source = "github"
)

// MatchType describes why a candidate was considered a match.
type MatchType string

const (
	MatchName         MatchType = "name"
	MatchAlias        MatchType = "alias"
	MatchLabel        MatchType = "label"
	MatchRelationship MatchType = "relationship"
	MatchExactID      MatchType = "exact-id"
)

// Match is a single scored hit against one source. Matches are values and
// are not modified after they are built.
type Match struct {
	Source Source    `json:"source" yaml:"source"`
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Type   MatchType `json:"match_type" yaml:"match_type"`
	Score  *int      `json:"score,omitempty" yaml:"score,omitempty"`
}

// Scored returns a copy of m carrying score.
func (m Match) Scored(score int) Match {
	m.Score = &score
	return m
}

// HasScore reports whether a similarity score was recorded.
func (m Match) HasScore() bool {
	return m.Score != nil
}
