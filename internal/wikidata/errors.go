// Package wikidata finds the Wikidata entity closest to an organization name
// and extracts the registry-relevant claims from it.
package wikidata

import (
	"fmt"

	"github.com/adambuttrick/triage-tool/internal/types"
)

// APIError is returned when the MediaWiki API answers with an error object.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wikidata API error: %s: %s", e.Code, e.Info)
}

// NoClaimsError is returned by Lookup when the closest entity carries no
// claims. The candidate is kept so callers can still report the pick.
type NoClaimsError struct {
	Candidate types.WikidataCandidate
}

func (e *NoClaimsError) Error() string {
	return fmt.Sprintf("wikidata entity %s has no claims", e.Candidate.ID)
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *apiError) err() error {
	if e == nil {
		return nil
	}
	return &APIError{Code: e.Code, Info: e.Info}
}
