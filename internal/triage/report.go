package triage

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/adambuttrick/triage-tool/internal/types"
)

// Report field names.
const (
	FieldWikidataID          = "wikidata_id"
	FieldName                = "name"
	FieldNameMatchRatio      = "name_match_ratio"
	FieldLabels              = "labels"
	FieldEstablished         = "established"
	FieldCity                = "city"
	FieldCityGeoNamesID      = "city_geonames_id"
	FieldAdminTerrName       = "admin_terr_name"
	FieldAdminTerrGeoNamesID = "admin_terr_geonames_id"
	FieldCountry             = "country"
	FieldWikipediaURL        = "wikipedia_url"
	FieldLinks               = "links"
	FieldLatLng              = "lat_lng"
	FieldGRID                = "grid_id"
	FieldISNI                = "isni"
	FieldCrossrefFunderID    = "crossref_funder_id"
	FieldRinggoldID          = "ringgold_id"
	FieldScholarUsage        = "google_scholar_affiliation_usage"
	FieldORCIDUsage          = "orcid_affiliation_usage"
	FieldIssueReferences     = "issue_references"
)

// FieldOrder is the order fields are written in.
var FieldOrder = []string{
	FieldWikidataID,
	FieldName,
	FieldNameMatchRatio,
	FieldLabels,
	FieldEstablished,
	FieldCity,
	FieldCityGeoNamesID,
	FieldAdminTerrName,
	FieldAdminTerrGeoNamesID,
	FieldCountry,
	FieldWikipediaURL,
	FieldLinks,
	FieldLatLng,
	FieldGRID,
	FieldISNI,
	FieldCrossrefFunderID,
	FieldRinggoldID,
	FieldScholarUsage,
	FieldORCIDUsage,
	FieldIssueReferences,
}

// List separators used when flattening multi-valued fields.
const (
	labelSeparator     = "; "
	scholarSeparator   = "; "
	orcidSeparator     = " ; "
	referenceSeparator = " ; "
)

// Field is one populated report entry.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered field list that encodes as a JSON object with keys
// in list order.
type Fields []Field

// MarshalJSON implements json.Marshaler.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Report is the merged outcome of a run. Only fields some source produced
// are present.
type Report struct {
	Candidate     string
	RegistryID    string
	RORMatches    []types.Match
	PriorRequests []types.PriorRequest
	values        map[string]string
}

// NewReport merges per-source results into a report.
func NewReport(res *Results) *Report {
	r := &Report{
		Candidate:  res.Name,
		RegistryID: res.RegistryID,
		RORMatches: res.ROR,
		values:     make(map[string]string),
	}

	if e := res.Wikidata; e != nil {
		r.Set(FieldWikidataID, e.ID)
		r.Set(FieldName, e.Label)
		r.Set(FieldNameMatchRatio, strconv.Itoa(e.MatchRatio))
		r.Set(FieldLabels, strings.Join(e.Aliases, labelSeparator))
		r.Set(FieldEstablished, e.Established)
		if e.City != nil {
			r.Set(FieldCity, e.City.Name)
			r.Set(FieldCityGeoNamesID, e.City.GeoNamesID)
		}
		if e.AdminTerritory != nil {
			r.Set(FieldAdminTerrName, e.AdminTerritory.Name)
			r.Set(FieldAdminTerrGeoNamesID, e.AdminTerritory.GeoNamesID)
		}
		if e.Country != nil {
			r.Set(FieldCountry, e.Country.Name)
		}
		r.Set(FieldWikipediaURL, e.WikipediaURL)
		r.Set(FieldLinks, e.Links)
		r.Set(FieldLatLng, e.Coordinates)
		r.Set(FieldGRID, e.GRID)
		r.Set(FieldISNI, e.ISNI)
		r.Set(FieldRinggoldID, e.Ringgold)
	}

	if res.Crossref != nil {
		r.Set(FieldCrossrefFunderID, res.Crossref.ID)
	}
	r.Set(FieldScholarUsage, strings.Join(res.Scholar, scholarSeparator))
	r.Set(FieldORCIDUsage, strings.Join(res.ORCID, orcidSeparator))

	if res.Issues != nil {
		r.PriorRequests = res.Issues.PriorRequests
		r.Set(FieldIssueReferences, strings.Join(res.Issues.References, referenceSeparator))
	}
	return r
}

// Set stores value under name. Empty values are not stored.
func (r *Report) Set(name, value string) {
	if value == "" {
		return
	}
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[name] = value
}

// Get returns the value stored under name.
func (r *Report) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields returns the populated fields in FieldOrder.
func (r *Report) Fields() Fields {
	out := make(Fields, 0, len(r.values))
	for _, name := range FieldOrder {
		if v, ok := r.values[name]; ok {
			out = append(out, Field{Name: name, Value: v})
		}
	}
	return out
}

// Empty reports whether no source produced anything worth writing.
func (r *Report) Empty() bool {
	return len(r.values) == 0 && len(r.RORMatches) == 0
}
