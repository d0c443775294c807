// Package crossref finds the Crossref funder id for an organization name.
package crossref

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/rs/zerolog"

	"github.com/adambuttrick/triage-tool/internal/fetch"
	"github.com/adambuttrick/triage-tool/internal/fuzzy"
	"github.com/adambuttrick/triage-tool/internal/types"
)

// DefaultBaseURL is the Crossref funders endpoint.
const DefaultBaseURL = "https://api.crossref.org/funders"

// NameMatchThreshold is the ratio a funder name must exceed to be picked.
const NameMatchThreshold = 90

// Funder is one item of a funder search.
type Funder struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	AltNames []string `json:"alt-names"`
	URI      string   `json:"uri"`
}

type funderResponse struct {
	Status  string `json:"status"`
	Message struct {
		TotalResults int      `json:"total-results"`
		Items        []Funder `json:"items"`
	} `json:"message"`
}

// Client searches Crossref funders.
type Client struct {
	BaseURL string
	opts    *fetch.Options
	logger  zerolog.Logger
}

// NewClient creates a Crossref client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts *fetch.Options, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		opts:    opts,
		logger:  logger.With().Str("source", string(types.SourceCrossref)).Logger(),
	}
}

// Search returns the funders Crossref lists for name.
func (c *Client) Search(ctx context.Context, name string) ([]Funder, error) {
	u, err := fetch.WithQuery(c.BaseURL, url.Values{"query": {name}})
	if err != nil {
		return nil, err
	}
	var resp funderResponse
	if err := fetch.JSON(ctx, u, c.opts, &resp); err != nil {
		return nil, fmt.Errorf("crossref funder search: %w", err)
	}
	return resp.Message.Items, nil
}

// Lookup returns the funder matched to name, or nil when there is none.
func (c *Client) Lookup(ctx context.Context, name string) (*types.Match, error) {
	funders, err := c.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(funders) == 0 {
		c.logger.Info().Str("name", name).Msg("no Crossref funders found")
		return nil, nil
	}

	m, ok := SelectFunder(name, funders)
	if !ok {
		c.logger.Info().Str("name", name).Int("candidates", len(funders)).Msg("no Crossref funder matched")
		return nil, nil
	}
	c.logger.Info().Str("funder_id", m.ID).Str("match_type", string(m.Type)).Msg("Crossref funder matched")
	return &m, nil
}

// SelectFunder walks funders in order. A funder is picked when its name
// ratio is above 90 and above the best ratio so far, or otherwise when its
// alt-names contain name exactly. An alt-name pick does not raise the best
// ratio and can replace an earlier, better-scoring pick.
func SelectFunder(name string, funders []Funder) (types.Match, bool) {
	var (
		picked types.Match
		found  bool
		best   int
	)
	for _, f := range funders {
		ratio := fuzzy.Ratio(name, f.Name)
		m := types.Match{Source: types.SourceCrossref, ID: f.ID, Name: f.Name}
		switch {
		case ratio > NameMatchThreshold && ratio > best:
			m.Type = types.MatchName
			picked, found, best = m.Scored(ratio), true, ratio
		case slices.Contains(f.AltNames, name):
			m.Type = types.MatchAlias
			picked, found = m.Scored(ratio), true
		}
	}
	return picked, found
}
