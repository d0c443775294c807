package types

// Issue is a tracker issue as seen by the cross-checker. Text holds the
// body; a missing body is empty.
type Issue struct {
	Number      int
	Title       string
	Text        string
	Labels      []string
	URL         string
	APIURL      string
	CommentsURL string
}

// HasLabel reports whether the issue carries the named label.
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// PriorRequest is an earlier tracker issue whose organization name is
// close to the candidate.
type PriorRequest struct {
	IssueNumber int    `json:"issue_number" yaml:"issue_number"`
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Score       int    `json:"score" yaml:"score"`
}
