package slug

import (
	"regexp"
	"strings"
)

var invalidRuns = regexp.MustCompile(`[^a-z0-9\-_]+`)

// Make derives a URL-safe slug from a display name. The result is
// deterministic: the same input always yields the same slug, since slugs are
// used to match existing tags, not just to display them.
func Make(name string) string {
	s := strings.ToLower(name)
	s = invalidRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "item"
	}
	return s
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
