// Package orcid counts ORCID records that list an organization as an
// affiliation.
package orcid

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/adambuttrick/triage-tool/internal/fetch"
	"github.com/adambuttrick/triage-tool/internal/types"
)

const (
	// DefaultBaseURL is the public expanded-search endpoint.
	DefaultBaseURL = "https://pub.orcid.org/v3.0/expanded-search/"
	// DefaultProfileURL prefixes an ORCID iD to form its profile URL.
	DefaultProfileURL = "https://orcid.org/"
	// MaxResults caps the number of profile URLs returned.
	MaxResults = 3
)

// searchFields are the columns requested from expanded-search.
const searchFields = "orcid,current-institution-affiliation-name,past-institution-affiliation-name"

type expandedResult struct {
	OrcidID         string   `json:"orcid-id"`
	InstitutionName []string `json:"institution-name,omitempty"`
}

type searchResponse struct {
	Results  []expandedResult `json:"expanded-result"`
	NumFound int              `json:"num-found"`
}

// Client queries the ORCID public API.
type Client struct {
	BaseURL    string
	ProfileURL string
	opts       *fetch.Options
	logger     zerolog.Logger
}

// NewClient creates an ORCID client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts *fetch.Options, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		ProfileURL: DefaultProfileURL,
		opts:       opts,
		logger:     logger.With().Str("source", string(types.SourceORCID)).Logger(),
	}
}

// AffiliationQuery builds the Solr query for records affiliated with name.
func AffiliationQuery(name string) string {
	return `affiliation-org-name:"` + name + `"`
}

// Affiliations returns up to three profile URLs of records affiliated with
// name, in the order ORCID returned them.
func (c *Client) Affiliations(ctx context.Context, name string) ([]string, error) {
	u, err := fetch.WithQuery(c.BaseURL, url.Values{
		"q":  {AffiliationQuery(name)},
		"fl": {searchFields},
	})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := fetch.JSON(ctx, u, c.opts, &resp); err != nil {
		return nil, fmt.Errorf("orcid expanded search: %w", err)
	}
	c.logger.Debug().Int("num_found", resp.NumFound).Msg("ORCID expanded search")
	if resp.NumFound == 0 {
		return nil, nil
	}

	urls := make([]string, 0, MaxResults)
	for _, r := range resp.Results {
		if r.OrcidID == "" {
			continue
		}
		urls = append(urls, c.ProfileURL+r.OrcidID)
		if len(urls) == MaxResults {
			break
		}
	}
	return urls, nil
}
