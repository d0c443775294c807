// Package issues scans the registry's GitHub issue tracker for earlier
// requests that concern the same organization.
package issues

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adambuttrick/triage-tool/internal/fetch"
	"github.com/adambuttrick/triage-tool/internal/types"
)

// DefaultAPIURL is the GitHub REST API root.
const DefaultAPIURL = "https://api.github.com"

// Credentials authenticate tracker requests.
type Credentials struct {
	User  string
	Token string
}

type githubLabel struct {
	Name string `json:"name"`
}

type githubIssue struct {
	Number      int           `json:"number"`
	Title       string        `json:"title"`
	Body        *string       `json:"body"`
	Labels      []githubLabel `json:"labels"`
	HTMLURL     string        `json:"html_url"`
	URL         string        `json:"url"`
	CommentsURL string        `json:"comments_url"`
}

type githubComment struct {
	Body string `json:"body"`
}

// GitHubClient lists issues and comments of one repository.
type GitHubClient struct {
	APIURL string
	Owner  string
	Repo   string
	opts   *fetch.Options
	logger zerolog.Logger
}

// NewGitHubClient creates a client for owner/repo. Non-empty credentials
// are sent as basic auth with every request.
func NewGitHubClient(apiURL, owner, repo string, creds Credentials, opts *fetch.Options, logger zerolog.Logger) *GitHubClient {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	withAuth := *opts
	if creds.User != "" || creds.Token != "" {
		withAuth.Auth = &fetch.BasicAuth{Username: creds.User, Password: creds.Token}
	}
	return &GitHubClient{
		APIURL: strings.TrimRight(apiURL, "/"),
		Owner:  owner,
		Repo:   repo,
		opts:   &withAuth,
		logger: logger.With().Str("source", string(types.SourceGitHub)).Logger(),
	}
}

// ListIssues returns one page of issues in state ("open" or "closed").
// Issue text is the body only; comments are loaded by Comments.
func (c *GitHubClient) ListIssues(ctx context.Context, state string, page, perPage int) ([]types.Issue, error) {
	base := fmt.Sprintf("%s/repos/%s/%s/issues", c.APIURL, url.PathEscape(c.Owner), url.PathEscape(c.Repo))
	u, err := fetch.WithQuery(base, url.Values{
		"state":    {state},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {strconv.Itoa(page)},
	})
	if err != nil {
		return nil, err
	}

	var raw []githubIssue
	if err := fetch.JSON(ctx, u, c.opts, &raw); err != nil {
		return nil, fmt.Errorf("list %s issues page %d: %w", state, page, err)
	}

	out := make([]types.Issue, 0, len(raw))
	for _, gi := range raw {
		issue := types.Issue{
			Number:      gi.Number,
			Title:       gi.Title,
			URL:         gi.HTMLURL,
			APIURL:      gi.URL,
			CommentsURL: gi.CommentsURL,
		}
		if gi.Body != nil {
			issue.Text = *gi.Body
		}
		for _, l := range gi.Labels {
			issue.Labels = append(issue.Labels, l.Name)
		}
		out = append(out, issue)
	}
	return out, nil
}

// Comments returns the comment bodies of issue in order. The issue's
// comments_url is used when the tracker supplied one.
func (c *GitHubClient) Comments(ctx context.Context, issue types.Issue) ([]string, error) {
	commentsURL := issue.CommentsURL
	if commentsURL == "" {
		commentsURL = issue.APIURL + "/comments"
	}
	var raw []githubComment
	if err := fetch.JSON(ctx, commentsURL, c.opts, &raw); err != nil {
		return nil, fmt.Errorf("comments for issue #%d: %w", issue.Number, err)
	}
	bodies := make([]string, 0, len(raw))
	for _, cm := range raw {
		bodies = append(bodies, cm.Body)
	}
	return bodies, nil
}
