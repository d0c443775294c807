package types

// Location is a resolved Wikidata place.
type Location struct {
	Name       string
	GeoNamesID string
}

// WikidataEntry is the metadata pulled from the best-matching Wikidata
// entity. Empty strings and nil pointers mean the claim was absent.
type WikidataEntry struct {
	ID             string
	Label          string
	MatchRatio     int
	Aliases        []string
	WikipediaURL   string
	Established    string
	AdminTerritory *Location
	City           *Location
	Country        *Location
	Coordinates    string
	Links          string
	GRID           string
	ISNI           string
	Ringgold       string
}

// WikidataCandidate is the closest search result for a name before its
// entity was fetched.
type WikidataCandidate struct {
	ID         string
	Label      string
	MatchRatio int
}

// Match returns the entry as a scored label match.
func (e *WikidataEntry) Match() Match {
	return Match{Source: SourceWikidata, ID: e.ID, Name: e.Label, Type: MatchLabel}.Scored(e.MatchRatio)
}
