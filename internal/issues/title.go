package issues

import "strings"

// ParseTitleName extracts the organization name from a request title of
// the form "<prefix>: <org name>". The name is the text after the last
// colon. ok is false when there is no colon or nothing follows it.
func ParseTitleName(title string) (name string, ok bool) {
	title = strings.NewReplacer("\r", "", "\n", "").Replace(title)
	idx := strings.LastIndex(title, ":")
	if idx < 0 {
		return "", false
	}
	name = strings.TrimSpace(title[idx+1:])
	if name == "" {
		return "", false
	}
	return name, true
}
