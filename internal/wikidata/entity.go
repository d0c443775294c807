package wikidata

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Property identifiers read from an organization entity.
const (
	PropInception      = "P571"
	PropAdminTerritory = "P131"
	PropLocation       = "P276"
	PropCountry        = "P17"
	PropCoordinates    = "P625"
	PropWebsite        = "P856"
	PropGRID           = "P2427"
	PropISNI           = "P213"
	PropRinggold       = "P3500"
	PropGeoNames       = "P1566"
)

// SearchResult is one candidate returned by wbsearchentities.
type SearchResult struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type searchResponse struct {
	Search []SearchResult `json:"search"`
	Error  *apiError      `json:"error,omitempty"`
}

type entitiesResponse struct {
	Entities map[string]*Entity `json:"entities"`
	Error    *apiError          `json:"error,omitempty"`
}

// MonolingualText is a language-tagged string.
type MonolingualText struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// Sitelink points an entity at a page on another wiki.
type Sitelink struct {
	Site  string `json:"site"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Entity is the subset of a wbgetentities record the matcher reads.
type Entity struct {
	ID        string                       `json:"id"`
	Missing   *string                      `json:"missing,omitempty"`
	Labels    map[string]MonolingualText   `json:"labels"`
	Aliases   map[string][]MonolingualText `json:"aliases"`
	Claims    map[string][]Statement       `json:"claims"`
	Sitelinks map[string]Sitelink          `json:"sitelinks"`
}

// Statement is a single claim on an entity.
type Statement struct {
	MainSnak Snak `json:"mainsnak"`
}

// Snak holds the value of a statement. DataValue is nil for "novalue" and
// "somevalue" snaks.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// DataValue is a typed claim value. Value is decoded lazily by the accessor
// matching Type.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Coordinate is a globe-coordinate claim value.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String formats the coordinate as "lat, lng".
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// HasClaims reports whether the entity carries any statements at all.
func (e *Entity) HasClaims() bool {
	return e != nil && len(e.Claims) > 0
}

// Label returns the label in lang.
func (e *Entity) Label(lang string) (string, bool) {
	if e == nil {
		return "", false
	}
	l, ok := e.Labels[lang]
	if !ok || l.Value == "" {
		return "", false
	}
	return l.Value, true
}

// AllAliases flattens aliases across languages. Languages are visited in
// sorted order so the result is stable.
func (e *Entity) AllAliases() []string {
	if e == nil || len(e.Aliases) == 0 {
		return nil
	}
	langs := make([]string, 0, len(e.Aliases))
	for lang := range e.Aliases {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var out []string
	for _, lang := range langs {
		for _, a := range e.Aliases[lang] {
			out = append(out, a.Value)
		}
	}
	return out
}

// First returns the value of the first statement for prop.
func (e *Entity) First(prop string) (*DataValue, bool) {
	if e == nil {
		return nil, false
	}
	statements := e.Claims[prop]
	if len(statements) == 0 || statements[0].MainSnak.DataValue == nil {
		return nil, false
	}
	return statements[0].MainSnak.DataValue, true
}

// FirstString returns the first statement for prop as a plain string
// (string, url and external-id values).
func (e *Entity) FirstString(prop string) (string, bool) {
	dv, ok := e.First(prop)
	if !ok {
		return "", false
	}
	return dv.Text()
}

// Text decodes a string-typed value.
func (dv *DataValue) Text() (string, bool) {
	var s string
	if err := json.Unmarshal(dv.Value, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// EntityID decodes a wikibase-entityid value.
func (dv *DataValue) EntityID() (string, bool) {
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(dv.Value, &v); err != nil || v.ID == "" {
		return "", false
	}
	return v.ID, true
}

// Time decodes a time value and returns its ISO literal, e.g. "+1861-04-10T00:00:00Z".
func (dv *DataValue) Time() (string, bool) {
	var v struct {
		Time string `json:"time"`
	}
	if err := json.Unmarshal(dv.Value, &v); err != nil || v.Time == "" {
		return "", false
	}
	return v.Time, true
}

// Coordinate decodes a globecoordinate value.
func (dv *DataValue) Coordinate() (Coordinate, bool) {
	var v *Coordinate
	if err := json.Unmarshal(dv.Value, &v); err != nil || v == nil {
		return Coordinate{}, false
	}
	return *v, true
}

// Year returns the first four digits of an ISO date literal, dropping the
// leading sign Wikidata puts on every time value.
func Year(isoTime string) (string, bool) {
	t := strings.TrimLeft(isoTime, "+-")
	if len(t) < 4 {
		return "", false
	}
	return t[:4], true
}
