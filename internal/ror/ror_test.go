package ror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adambuttrick/triage-tool/internal/types"
)

func TestClassify(t *testing.T) {
	org := Organization{
		ID:      "https://ror.org/00example",
		Name:    "Example University",
		Aliases: []string{"Ex Univ"},
		Labels:  []Label{{Label: "Universidad Ejemplo", ISO639: "es"}},
		Relationships: []Relationship{
			{Label: "Example University Hospital", Type: "Related", ID: "https://ror.org/01"},
			{Label: "Example University Press", Type: "Child", ID: "https://ror.org/02"},
		},
	}

	tests := []struct {
		name      string
		candidate string
		wantType  []types.MatchType
	}{
		{"exact name", "Example University", []types.MatchType{types.MatchName}},
		{"name ignores case and punctuation", "example university!", []types.MatchType{types.MatchName}},
		{"alias below threshold", "Ex Univ", []types.MatchType{types.MatchAlias}},
		{"label", "Universidad Ejemplo", []types.MatchType{types.MatchLabel}},
		{"one relationship", "Hospital", []types.MatchType{types.MatchRelationship}},
		{"every matching relationship", "Example Univ", []types.MatchType{types.MatchRelationship, types.MatchRelationship}},
		{"no match", "Unrelated Institute", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.candidate, org)
			var gotTypes []types.MatchType
			for _, m := range got {
				assert.Equal(t, org.ID, m.ID)
				assert.Equal(t, org.Name, m.Name)
				assert.Equal(t, types.SourceROR, m.Source)
				gotTypes = append(gotTypes, m.Type)
			}
			assert.Equal(t, tt.wantType, gotTypes)
		})
	}
}

func TestClassify_NameMatchCarriesScore(t *testing.T) {
	got := Classify("Example University", Organization{ID: "x", Name: "Example University"})
	require.Len(t, got, 1)
	require.True(t, got[0].HasScore())
	assert.GreaterOrEqual(t, *got[0].Score, NameMatchThreshold)
}

func TestClassify_AliasRequiresExactName(t *testing.T) {
	got := Classify("ex univ", Organization{ID: "x", Name: "Example University", Aliases: []string{"Ex Univ"}})
	assert.Empty(t, got)
}

func TestCollapseAdjacent(t *testing.T) {
	a := types.Match{Source: types.SourceROR, ID: "A", Name: "Alpha", Type: types.MatchName}
	b := types.Match{Source: types.SourceROR, ID: "B", Name: "Beta", Type: types.MatchAlias}

	got := CollapseAdjacent([]types.Match{a, a, b, a})
	assert.Equal(t, []types.Match{a, b, a}, got)

	assert.Empty(t, CollapseAdjacent(nil))
}

func TestCollapseAdjacent_IgnoresScore(t *testing.T) {
	a := types.Match{Source: types.SourceROR, ID: "A", Name: "Alpha", Type: types.MatchName}
	got := CollapseAdjacent([]types.Match{a.Scored(95), a.Scored(97)})
	assert.Len(t, got, 1)
}

func TestSearch_BothQueries(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Has("query"):
			seen = append(seen, "query")
			assert.Equal(t, `"Example University"`, q.Get("query"))
			_, _ = w.Write([]byte(`{"number_of_results":2,"items":[
				{"id":"https://ror.org/00a","name":"Example University","aliases":[],"labels":[]},
				{"id":"https://ror.org/00b","name":"Other College","aliases":["Example University"],"labels":[]}
			]}`))
		case q.Has("affiliation"):
			seen = append(seen, "affiliation")
			_, _ = w.Write([]byte(`{"number_of_results":1,"items":[
				{"score":1.0,"chosen":true,"organization":{"id":"https://ror.org/00b","name":"Other College","aliases":["Example University"],"labels":[]}}
			]}`))
		}
	}))
	defer server.Close()

	matches, err := NewClient(server.URL, nil, zerolog.Nop()).Search(context.Background(), "Example University")
	require.NoError(t, err)
	assert.Equal(t, []string{"query", "affiliation"}, seen)

	require.Len(t, matches, 2)
	assert.Equal(t, "https://ror.org/00a", matches[0].ID)
	assert.Equal(t, types.MatchName, matches[0].Type)
	assert.Equal(t, "https://ror.org/00b", matches[1].ID)
	assert.Equal(t, types.MatchAlias, matches[1].Type)
}

func TestSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"number_of_results":0,"items":[]}`))
	}))
	defer server.Close()

	matches, err := NewClient(server.URL, nil, zerolog.Nop()).Search(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_TransportErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil, zerolog.Nop()).Search(context.Background(), "Example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ror query search")
}
