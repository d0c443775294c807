// Package scholar finds Google Scholar profiles whose affiliation names an
// organization.
package scholar

import (
	"context"
	"strings"
)

// MaxResults caps the number of affiliated profiles collected.
const MaxResults = 3

// Author is one row of an author search.
type Author struct {
	ScholarID   string
	Name        string
	Affiliation string
}

// Profile is the data read from an author's profile page.
type Profile struct {
	ScholarID   string
	Name        string
	Affiliation string
}

// AuthorIterator yields author search results one at a time. ok is false
// once the results are exhausted.
type AuthorIterator interface {
	Next(ctx context.Context) (author Author, ok bool, err error)
}

// ProfileFetcher loads the full profile of an author.
type ProfileFetcher interface {
	Profile(ctx context.Context, scholarID string) (*Profile, error)
}

// Collect walks authors, fetches each profile and keeps the ones whose
// affiliation contains name verbatim. It stops as soon as MaxResults
// profiles are kept, without pulling or fetching any further author.
func Collect(ctx context.Context, name string, authors AuthorIterator, profiles ProfileFetcher) ([]Profile, error) {
	var kept []Profile
	for len(kept) < MaxResults {
		author, ok, err := authors.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		p, err := profiles.Profile(ctx, author.ScholarID)
		if err != nil {
			return nil, err
		}
		if p != nil && strings.Contains(p.Affiliation, name) {
			kept = append(kept, *p)
		}
	}
	return kept, nil
}
