package wikidata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/adambuttrick/triage-tool/internal/fetch"
	"github.com/adambuttrick/triage-tool/internal/types"
)

// DefaultBaseURL is the MediaWiki action API for Wikidata.
const DefaultBaseURL = "https://www.wikidata.org/w/api.php"

// Client talks to the Wikidata action API.
type Client struct {
	BaseURL string
	opts    *fetch.Options
	logger  zerolog.Logger
}

// NewClient creates a Wikidata client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts *fetch.Options, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		opts:    opts,
		logger:  logger.With().Str("source", string(types.SourceWikidata)).Logger(),
	}
}

// Search runs wbsearchentities for name in English.
func (c *Client) Search(ctx context.Context, name string) ([]SearchResult, error) {
	u, err := fetch.WithQuery(c.BaseURL, url.Values{
		"action":   {"wbsearchentities"},
		"search":   {name},
		"language": {"en"},
		"format":   {"json"},
	})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := fetch.JSON(ctx, u, c.opts, &resp); err != nil {
		return nil, err
	}
	if err := resp.Error.err(); err != nil {
		return nil, err
	}
	return resp.Search, nil
}

// Entity fetches the full record for id. A nil entity means the API did not
// return one.
func (c *Client) Entity(ctx context.Context, id string) (*Entity, error) {
	return c.getEntity(ctx, id, nil)
}

// WikipediaURL returns the URL of the entity's article on <lang>wiki, or ""
// when there is none.
func (c *Client) WikipediaURL(ctx context.Context, id, lang string) (string, error) {
	entity, err := c.getEntity(ctx, id, url.Values{"props": {"sitelinks/urls"}})
	if err != nil {
		return "", err
	}
	if entity == nil {
		return "", nil
	}
	return entity.Sitelinks[lang+"wiki"].URL, nil
}

// Location resolves a place entity to its English label and GeoNames id.
// It returns nil when the place has no English label.
func (c *Client) Location(ctx context.Context, id string) (*types.Location, error) {
	entity, err := c.Entity(ctx, id)
	if err != nil {
		return nil, err
	}
	name, ok := entity.Label("en")
	if !ok {
		c.logger.Debug().Str("entity", id).Msg("location has no English label")
		return nil, nil
	}
	geonames, _ := entity.FirstString(PropGeoNames)
	return &types.Location{Name: name, GeoNamesID: geonames}, nil
}

func (c *Client) getEntity(ctx context.Context, id string, extra url.Values) (*Entity, error) {
	params := url.Values{
		"action": {"wbgetentities"},
		"ids":    {id},
		"format": {"json"},
	}
	for k, v := range extra {
		params[k] = v
	}
	u, err := fetch.WithQuery(c.BaseURL, params)
	if err != nil {
		return nil, err
	}

	var resp entitiesResponse
	if err := fetch.JSON(ctx, u, c.opts, &resp); err != nil {
		return nil, err
	}
	if err := resp.Error.err(); err != nil {
		return nil, err
	}
	entity, ok := resp.Entities[id]
	if !ok || entity == nil || entity.Missing != nil {
		return nil, nil
	}
	if c.logger.GetLevel() <= zerolog.TraceLevel {
		c.logger.Trace().Str("entity", id).Msg(spew.Sdump(entity))
	}
	return entity, nil
}

// Lookup searches Wikidata for name, picks the closest label and returns the
// metadata of that entity. It returns nil when the search is empty and a
// *NoClaimsError when the chosen entity has no claims.
func (c *Client) Lookup(ctx context.Context, name string) (*types.WikidataEntry, error) {
	c.logger.Info().Str("name", name).Msg("searching Wikidata")

	results, err := c.Search(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("wikidata search: %w", err)
	}
	best, ratio, ok := BestMatch(name, results)
	if !ok {
		c.logger.Info().Str("name", name).Msg("no Wikidata search results")
		return nil, nil
	}
	c.logger.Info().Str("label", best.Label).Str("id", best.ID).Int("ratio", ratio).Msg("best Wikidata candidate")

	entity, err := c.Entity(ctx, best.ID)
	if err != nil {
		return nil, fmt.Errorf("wikidata entity %s: %w", best.ID, err)
	}
	if !entity.HasClaims() {
		c.logger.Warn().Str("id", best.ID).Msg("no claims found for entity")
		return nil, &NoClaimsError{Candidate: types.WikidataCandidate{ID: best.ID, Label: best.Label, MatchRatio: ratio}}
	}

	entry := &types.WikidataEntry{
		ID:         best.ID,
		Label:      best.Label,
		MatchRatio: ratio,
		Aliases:    entity.AllAliases(),
	}

	if entry.WikipediaURL, err = c.WikipediaURL(ctx, best.ID, "en"); err != nil {
		return nil, fmt.Errorf("wikipedia url for %s: %w", best.ID, err)
	}

	if dv, ok := entity.First(PropInception); ok {
		if t, ok := dv.Time(); ok {
			entry.Established, _ = Year(t)
		}
	}

	places := []struct {
		prop string
		dst  **types.Location
	}{
		{PropAdminTerritory, &entry.AdminTerritory},
		{PropLocation, &entry.City},
		{PropCountry, &entry.Country},
	}
	for _, p := range places {
		dv, ok := entity.First(p.prop)
		if !ok {
			continue
		}
		placeID, ok := dv.EntityID()
		if !ok {
			continue
		}
		loc, err := c.Location(ctx, placeID)
		if err != nil {
			return nil, fmt.Errorf("wikidata location %s: %w", placeID, err)
		}
		*p.dst = loc
	}

	if dv, ok := entity.First(PropCoordinates); ok {
		if coord, ok := dv.Coordinate(); ok {
			entry.Coordinates = coord.String()
		}
	}

	entry.Links, _ = entity.FirstString(PropWebsite)
	entry.GRID, _ = entity.FirstString(PropGRID)
	entry.ISNI, _ = entity.FirstString(PropISNI)
	entry.Ringgold, _ = entity.FirstString(PropRinggold)

	return entry, nil
}
