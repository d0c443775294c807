package issues

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubClient_ListIssues(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "octo", user)
		assert.Equal(t, "secret", pass)

		switch r.URL.Path {
		case "/repos/ror-community/ror-updates/issues":
			assert.Equal(t, "closed", r.URL.Query().Get("state"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"number": 7, "title": "Add a new organization to ROR: Test Org", "body": null,
				 "labels": [{"name": "new record"}, {"name": "triage needed"}],
				 "html_url": "https://github.com/ror-community/ror-updates/issues/7",
				 "url": "` + server.URL + `/repos/ror-community/ror-updates/issues/7",
				 "comments_url": "` + server.URL + `/comments/7"},
				{"number": 8, "title": "Other", "body": "text", "labels": [],
				 "html_url": "https://github.com/ror-community/ror-updates/issues/8",
				 "url": "` + server.URL + `/repos/ror-community/ror-updates/issues/8"}
			]`))
		case "/comments/7":
			_, _ = w.Write([]byte(`[{"body": "one"}, {"body": "two"}]`))
		case "/repos/ror-community/ror-updates/issues/8/comments":
			_, _ = w.Write([]byte(`[{"body": "three"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewGitHubClient(server.URL, DefaultOwner, DefaultRepo, Credentials{User: "octo", Token: "secret"}, nil, zerolog.Nop())

	issues, err := client.ListIssues(context.Background(), "closed", 2, 100)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, 7, issues[0].Number)
	assert.Empty(t, issues[0].Text)
	assert.True(t, issues[0].HasLabel("new record"))
	assert.Equal(t, "https://github.com/ror-community/ror-updates/issues/7", issues[0].URL)
	assert.Equal(t, "text", issues[1].Text)
	assert.Empty(t, issues[1].Labels)

	comments, err := client.Comments(context.Background(), issues[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, comments)

	// No comments_url: falls back to the issue's API URL.
	assert.Empty(t, issues[1].CommentsURL)
	comments, err = client.Comments(context.Background(), issues[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"three"}, comments)
}

func TestGitHubClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewGitHubClient(server.URL, "o", "r", Credentials{}, nil, zerolog.Nop())
	_, err := client.ListIssues(context.Background(), "open", 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list open issues page 1")
}

func TestChecker_WithGitHubClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") == "open" && r.URL.Query().Get("page") == "1" {
			_, _ = w.Write([]byte(`[{"number": 1, "title": "Add a new organization to ROR: Test Org",
				"labels": [{"name": "new record"}], "html_url": "https://example.org/1", "url": "x"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewGitHubClient(server.URL, "o", "r", Credentials{}, nil, zerolog.Nop())
	result, err := NewChecker(client, DefaultOptions(), zerolog.Nop()).Check(context.Background(), "Test Org", "")
	require.NoError(t, err)
	require.Len(t, result.PriorRequests, 1)
	assert.Equal(t, "https://example.org/1", result.PriorRequests[0].URL)
}
