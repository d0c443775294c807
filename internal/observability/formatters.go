// Package observability provides the operator-facing output of a triage
// run: one-line notices as sources answer and boxed summaries.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/adambuttrick/triage-tool/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles operator-facing output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// WikidataMatch announces the Wikidata entity picked for name.
func (p *Printer) WikidataMatch(name string, entry *types.WikidataEntry) {
	if entry == nil {
		return
	}
	p.line("%s matched: %s w/ match ratio of %d%%", name, entry.Label, entry.MatchRatio)
}

// WikidataRejected announces the Wikidata pick for name whose entity had
// no claims and was therefore dropped.
func (p *Printer) WikidataRejected(name string, c types.WikidataCandidate) {
	p.line("%s matched: %s w/ match ratio of %d%%", name, c.Label, c.MatchRatio)
	p.line("No claims found for Wikidata entity %s", c.ID)
}

// RORMatches announces every existing ROR record, or that there were none.
func (p *Printer) RORMatches(name string, matches []types.Match) {
	if len(matches) == 0 {
		p.line("No matches in ROR found for %s", name)
		return
	}
	for _, m := range matches {
		p.line("Found existing record in ROR %s - %s", m.ID, m.Name)
	}
}

// NoScholarAffiliations reports an empty Google Scholar result.
func (p *Printer) NoScholarAffiliations() {
	p.line("No google scholar affiliations found")
}

// NoORCIDAffiliations reports an empty ORCID result.
func (p *Printer) NoORCIDAffiliations() {
	p.line("No orcid affiliations found")
}

// PriorRequest warns that name was requested before.
func (p *Printer) PriorRequest(name string, req types.PriorRequest) {
	p.line("%s was already requested or previously rejected. See issue#%d at %s", name, req.IssueNumber, req.URL)
}

// IssueReference reports an issue that mentions registryID.
func (p *Printer) IssueReference(registryID, url string) {
	p.line("%s is referenced in %s", registryID, url)
}

// NoMetadata reports a run in which no source produced data.
func (p *Printer) NoMetadata(name string) {
	p.line("No metadata found for %s", name)
}

// ReportWritten reports where the triage result was saved.
func (p *Printer) ReportWritten(path string) {
	p.line("Triage result written to %s", path)
}

// PrintScore outputs both normalized forms and their similarity.
func (p *Printer) PrintScore(a, b, normA, normB string, ratio int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("A:          %s\n", a))
	sb.WriteString(fmt.Sprintf("Normalized: %s\n", normA))
	sb.WriteString(fmt.Sprintf("B:          %s\n", b))
	sb.WriteString(fmt.Sprintf("Normalized: %s\n", normB))
	sb.WriteString(fmt.Sprintf("\nRatio: %d", ratio))

	p.printBox("NAME SIMILARITY", sb.String())
}

// PrintMatches outputs a summary of source matches grouped in order.
func (p *Printer) PrintMatches(matches []types.Match) {
	if len(matches) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n\n", len(matches)))

	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		sb.WriteString(fmt.Sprintf("%-14s %s (%s)", m.Source, m.Type, m.ID))
		if m.HasScore() {
			sb.WriteString(fmt.Sprintf(" %d%%", *m.Score))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(matches)-maxItemsToShow))
	}

	p.printBox("SOURCE MATCHES", sb.String())
}

// PrintIssueScan outputs the result of an issue tracker scan.
func (p *Printer) PrintIssueScan(name string, prior []types.PriorRequest, refs []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n\n", name))

	if len(prior) == 0 {
		sb.WriteString("No prior requests\n")
	} else {
		sb.WriteString("Prior requests:\n")
		for _, req := range prior {
			sb.WriteString(fmt.Sprintf("  • #%d %s (%d%%)\n", req.IssueNumber, req.Name, req.Score))
		}
	}

	if len(refs) > 0 {
		sb.WriteString("\nReferenced in:\n")
		for _, ref := range refs {
			sb.WriteString(fmt.Sprintf("  • %s\n", ref))
		}
	}

	p.printBox("ISSUE TRACKER", strings.TrimRight(sb.String(), "\n"))
}
