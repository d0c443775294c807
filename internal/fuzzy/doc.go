// Package fuzzy normalizes organization names and scores how similar two
// names are.
//
// Every matcher in the tool compares names through Ratio so that the
// thresholds used by different sources (90 for ROR names, Crossref funders
// and tracker duplicates) mean the same thing.
package fuzzy
