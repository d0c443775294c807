package scholar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/adambuttrick/triage-tool/internal/fetch"
	"github.com/adambuttrick/triage-tool/internal/types"
)

// DefaultBaseURL is the Google Scholar citations endpoint.
const DefaultBaseURL = "https://scholar.google.com/citations"

// Client scrapes Google Scholar author search and profile pages.
type Client struct {
	BaseURL string
	// UseBrowser renders pages in headless Chrome when plain HTTP is refused.
	UseBrowser     bool
	BrowserTimeout time.Duration
	opts           *fetch.Options
	logger         zerolog.Logger
}

// NewClient creates a Scholar client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts *fetch.Options, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:        baseURL,
		BrowserTimeout: fetch.DefaultTimeout,
		opts:           opts,
		logger:         logger.With().Str("source", string(types.SourceScholar)).Logger(),
	}
}

// ProfileURL returns the public profile URL for a Scholar user id.
func (c *Client) ProfileURL(scholarID string) string {
	u, err := fetch.WithQuery(c.BaseURL, url.Values{"user": {scholarID}})
	if err != nil {
		return c.BaseURL + "?user=" + url.QueryEscape(scholarID)
	}
	return u
}

// Affiliations returns up to three profile URLs of authors whose
// affiliation contains name.
func (c *Client) Affiliations(ctx context.Context, name string) ([]string, error) {
	profiles, err := Collect(ctx, name, c.Search(name), c)
	if err != nil {
		return nil, fmt.Errorf("google scholar: %w", err)
	}
	urls := make([]string, 0, len(profiles))
	for _, p := range profiles {
		urls = append(urls, c.ProfileURL(p.ScholarID))
	}
	return urls, nil
}

// Search returns an iterator over the author search results for name.
// Pages are requested lazily as the iterator advances.
func (c *Client) Search(name string) AuthorIterator {
	first, err := fetch.WithQuery(c.BaseURL, url.Values{
		"view_op":  {"search_authors"},
		"mauthors": {name},
		"hl":       {"en"},
	})
	return &searchIterator{client: c, next: first, err: err}
}

// Profile loads and parses an author's profile page.
func (c *Client) Profile(ctx context.Context, scholarID string) (*Profile, error) {
	u, err := fetch.WithQuery(c.BaseURL, url.Values{"user": {scholarID}, "hl": {"en"}})
	if err != nil {
		return nil, err
	}
	doc, err := c.document(ctx, u)
	if err != nil {
		return nil, err
	}
	p := ParseProfile(doc)
	p.ScholarID = scholarID
	c.logger.Debug().Str("scholar_id", scholarID).Str("affiliation", p.Affiliation).Msg("fetched profile")
	return p, nil
}

func (c *Client) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	html, err := c.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func (c *Client) page(ctx context.Context, pageURL string) (string, error) {
	result, err := fetch.URL(ctx, pageURL, c.opts)
	if err == nil && !looksBlocked(result.Body) {
		return string(result.Body), nil
	}
	if !c.UseBrowser || !shouldRetryInBrowser(err) {
		if err == nil {
			err = &fetch.Error{URL: pageURL, Message: "request blocked by captcha"}
		}
		return "", err
	}

	c.logger.Warn().Str("url", pageURL).Msg("plain HTTP refused, falling back to browser rendering")
	return fetch.WithBrowser(ctx, pageURL, c.BrowserTimeout, c.logger)
}

func looksBlocked(body []byte) bool {
	return strings.Contains(string(body), "gs_captcha_f") || strings.Contains(string(body), "id=\"captcha\"")
}

func shouldRetryInBrowser(err error) bool {
	if err == nil {
		return true
	}
	var fetchErr *fetch.Error
	if !errors.As(err, &fetchErr) {
		return false
	}
	return fetchErr.StatusCode == http.StatusTooManyRequests || fetchErr.StatusCode == http.StatusForbidden
}

type searchIterator struct {
	client  *Client
	next    string
	pending []Author
	err     error
}

func (it *searchIterator) Next(ctx context.Context) (Author, bool, error) {
	if it.err != nil {
		return Author{}, false, it.err
	}
	for len(it.pending) == 0 {
		if it.next == "" {
			return Author{}, false, nil
		}
		doc, err := it.client.document(ctx, it.next)
		if err != nil {
			it.err = err
			return Author{}, false, err
		}
		it.pending = ParseAuthors(doc)
		it.next = resolveNext(it.next, ParseNextPage(doc))
		it.client.logger.Debug().Int("authors", len(it.pending)).Bool("more", it.next != "").Msg("author search page")
	}
	a := it.pending[0]
	it.pending = it.pending[1:]
	return a, true, nil
}

func resolveNext(current, next string) string {
	if next == "" {
		return ""
	}
	base, err := url.Parse(current)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
