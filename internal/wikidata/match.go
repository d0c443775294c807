package wikidata

import "github.com/adambuttrick/triage-tool/internal/fuzzy"

// BestMatch returns the search result whose label is most similar to name
// along with its ratio. Scores compare against the raw name. The first
// result wins a tie. ok is false only when results is empty.
func BestMatch(name string, results []SearchResult) (best SearchResult, ratio int, ok bool) {
	ratio = -1
	for _, r := range results {
		score := fuzzy.Ratio(name, r.Label)
		if score > ratio {
			best, ratio, ok = r, score, true
		}
	}
	if !ok {
		return SearchResult{}, 0, false
	}
	return best, ratio, true
}
