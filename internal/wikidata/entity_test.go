package wikidata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEntity = `{
	"id": "Q42",
	"labels": {"en": {"language": "en", "value": "Example University"}},
	"aliases": {
		"fr": [{"language": "fr", "value": "Université Exemple"}],
		"en": [{"language": "en", "value": "EU"}, {"language": "en", "value": "Ex Univ"}]
	},
	"claims": {
		"P571": [{"mainsnak": {"snaktype": "value", "property": "P571",
			"datavalue": {"type": "time", "value": {"time": "+1861-04-10T00:00:00Z", "precision": 11}}}}],
		"P17": [{"mainsnak": {"snaktype": "value", "property": "P17",
			"datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q30"}}}}],
		"P625": [{"mainsnak": {"snaktype": "value", "property": "P625",
			"datavalue": {"type": "globecoordinate", "value": {"latitude": 42.36, "longitude": -71.092}}}}],
		"P856": [{"mainsnak": {"snaktype": "value", "property": "P856",
			"datavalue": {"type": "string", "value": "https://example.edu"}}}],
		"P213": [{"mainsnak": {"snaktype": "novalue", "property": "P213"}}]
	}
}`

func decodeEntity(t *testing.T, raw string) *Entity {
	t.Helper()
	var e Entity
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	return &e
}

func TestEntity_Accessors(t *testing.T) {
	e := decodeEntity(t, sampleEntity)

	assert.True(t, e.HasClaims())

	label, ok := e.Label("en")
	assert.True(t, ok)
	assert.Equal(t, "Example University", label)

	_, ok = e.Label("de")
	assert.False(t, ok)

	dv, ok := e.First(PropInception)
	require.True(t, ok)
	ts, ok := dv.Time()
	require.True(t, ok)
	assert.Equal(t, "+1861-04-10T00:00:00Z", ts)

	dv, ok = e.First(PropCountry)
	require.True(t, ok)
	id, ok := dv.EntityID()
	assert.True(t, ok)
	assert.Equal(t, "Q30", id)

	dv, ok = e.First(PropCoordinates)
	require.True(t, ok)
	coord, ok := dv.Coordinate()
	assert.True(t, ok)
	assert.Equal(t, "42.36, -71.092", coord.String())

	site, ok := e.FirstString(PropWebsite)
	assert.True(t, ok)
	assert.Equal(t, "https://example.edu", site)
}

func TestEntity_NoValueSnakIsAbsent(t *testing.T) {
	e := decodeEntity(t, sampleEntity)

	_, ok := e.FirstString(PropISNI)
	assert.False(t, ok)

	_, ok = e.FirstString(PropGRID)
	assert.False(t, ok)
}

func TestEntity_WrongTypeIsAbsent(t *testing.T) {
	e := decodeEntity(t, sampleEntity)

	dv, ok := e.First(PropWebsite)
	require.True(t, ok)
	_, ok = dv.EntityID()
	assert.False(t, ok)
	_, ok = dv.Coordinate()
	assert.False(t, ok)
}

func TestEntity_AllAliasesSortedByLanguage(t *testing.T) {
	e := decodeEntity(t, sampleEntity)
	assert.Equal(t, []string{"EU", "Ex Univ", "Université Exemple"}, e.AllAliases())
}

func TestEntity_NilSafe(t *testing.T) {
	var e *Entity
	assert.False(t, e.HasClaims())
	assert.Nil(t, e.AllAliases())
	_, ok := e.First(PropCountry)
	assert.False(t, ok)
}

func TestYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+1861-04-10T00:00:00Z", "1861", true},
		{"-0500-00-00T00:00:00Z", "0500", true},
		{"+2001-00-00T00:00:00Z", "2001", true},
		{"+12", "", false},
	}
	for _, tt := range tests {
		got, ok := Year(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
