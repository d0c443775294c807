// Package ror looks up an organization name in the Research Organization
// Registry and classifies each hit by how it matched.
package ror

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adambuttrick/triage-tool/internal/fetch"
	"github.com/adambuttrick/triage-tool/internal/fuzzy"
	"github.com/adambuttrick/triage-tool/internal/types"
)

// DefaultBaseURL is the ROR organizations endpoint.
const DefaultBaseURL = "https://api.ror.org/organizations"

// NameMatchThreshold is the minimum normalized ratio for a name match.
const NameMatchThreshold = 90

// Label is a name for the organization in another language.
type Label struct {
	Label  string `json:"label"`
	ISO639 string `json:"iso639"`
}

// Relationship links an organization to a related record.
type Relationship struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	ID    string `json:"id"`
}

// Organization is the part of a ROR record the matcher reads.
type Organization struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Aliases       []string       `json:"aliases"`
	Labels        []Label        `json:"labels"`
	Relationships []Relationship `json:"relationships"`
}

// item is a search result. Affiliation results wrap the record in an
// "organization" object; query results are the record itself.
type item struct {
	Organization
	Wrapped *Organization `json:"organization,omitempty"`
}

func (i *item) org() *Organization {
	if i.Wrapped != nil {
		return i.Wrapped
	}
	return &i.Organization
}

type searchResponse struct {
	NumberOfResults int    `json:"number_of_results"`
	Items           []item `json:"items"`
}

// Client searches the ROR API.
type Client struct {
	BaseURL string
	opts    *fetch.Options
	logger  zerolog.Logger
}

// NewClient creates a ROR client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts *fetch.Options, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		opts:    opts,
		logger:  logger.With().Str("source", string(types.SourceROR)).Logger(),
	}
}

// Search runs a name query and an affiliation query for name and returns the
// classified matches of both, in that order, with adjacent duplicates
// collapsed. An empty slice means ROR has no record for the name.
func (c *Client) Search(ctx context.Context, name string) ([]types.Match, error) {
	var matches []types.Match
	for _, param := range []string{"query", "affiliation"} {
		orgs, err := c.search(ctx, param, name)
		if err != nil {
			return nil, err
		}
		for _, org := range orgs {
			matches = append(matches, Classify(name, org)...)
		}
	}

	matches = CollapseAdjacent(matches)
	if len(matches) == 0 {
		c.logger.Info().Str("name", name).Msg("no matches in ROR")
	}
	return matches, nil
}

func (c *Client) search(ctx context.Context, param, name string) ([]Organization, error) {
	u, err := fetch.WithQuery(c.BaseURL, url.Values{param: {`"` + name + `"`}})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := fetch.JSON(ctx, u, c.opts, &resp); err != nil {
		return nil, fmt.Errorf("ror %s search: %w", param, err)
	}
	c.logger.Debug().Str("param", param).Int("results", resp.NumberOfResults).Msg("ROR search")
	if resp.NumberOfResults == 0 {
		return nil, nil
	}

	orgs := make([]Organization, 0, len(resp.Items))
	for i := range resp.Items {
		orgs = append(orgs, *resp.Items[i].org())
	}
	return orgs, nil
}

// Classify decides how name matches org. The checks run in order and the
// first that holds wins: normalized name ratio of at least 90, exact alias,
// exact label, then one relationship match per related record whose label
// contains name.
func Classify(name string, org Organization) []types.Match {
	base := types.Match{Source: types.SourceROR, ID: org.ID, Name: org.Name}

	score := fuzzy.NormalizedRatio(name, org.Name)
	if score >= NameMatchThreshold {
		m := base.Scored(score)
		m.Type = types.MatchName
		return []types.Match{m}
	}
	if slices.Contains(org.Aliases, name) {
		base.Type = types.MatchAlias
		return []types.Match{base}
	}
	for _, l := range org.Labels {
		if l.Label == name {
			base.Type = types.MatchLabel
			return []types.Match{base}
		}
	}

	var out []types.Match
	for _, rel := range org.Relationships {
		if strings.Contains(rel.Label, name) {
			m := base
			m.Type = types.MatchRelationship
			out = append(out, m)
		}
	}
	return out
}

// CollapseAdjacent drops a match when it repeats the one right before it.
// Non-adjacent repeats are kept.
func CollapseAdjacent(matches []types.Match) []types.Match {
	if len(matches) == 0 {
		return matches
	}
	out := make([]types.Match, 0, len(matches))
	for i, m := range matches {
		if i > 0 && sameMatch(matches[i-1], m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func sameMatch(a, b types.Match) bool {
	return a.Source == b.Source && a.ID == b.ID && a.Name == b.Name && a.Type == b.Type
}
