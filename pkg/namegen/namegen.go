// Package namegen derives suggested job names from a cadence prefix and the
// tag or target the job is attached to. Suggestions are idempotent under
// repeated cadence changes: a previously applied prefix is stripped before a
// new one is applied, so cycling a schedule never stacks prefixes.
package namegen

import "strings"

var knownPrefixes = []string{"Daily", "Weekly", "Monthly"}

// StripPrefix removes any already-applied cadence prefix from name,
// recovering the base name. Repeated prefixes ("Daily Daily X") and a bare
// prefix with no remainder are both handled.
func StripPrefix(name string) string {
	s := strings.TrimSpace(name)
	for {
		stripped := false
		for _, p := range knownPrefixes {
			if s == p {
				return ""
			}
			if strings.HasPrefix(s, p+" ") {
				s = strings.TrimSpace(strings.TrimPrefix(s, p+" "))
				stripped = true
			}
		}
		if !stripped {
			return s
		}
	}
}

// Suggest composes a job name from the current cadence prefix token (may be
// empty for sub-daily schedules), the tag or target display name, and the
// field's previous value. The previous value's own prefix is stripped first,
// so re-suggesting after a cadence change returns to the original name
// bit-for-bit. Returns "" when there is nothing to suggest.
func Suggest(prefix, contextName, previousName string) string {
	base := StripPrefix(previousName)
	suffix := base
	if suffix == "" && strings.TrimSpace(contextName) != "" {
		suffix = strings.TrimSpace(contextName) + " Backup"
	}
	parts := make([]string, 0, 2)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, " ")
}

// FollowState tracks whether the name field still follows suggestions
// automatically. The transition out of FollowAuto is one-way: once the
// operator types a custom name the field is frozen against automatic
// rewrites until cleared or until suggestion is invoked explicitly.
type FollowState int

const (
	// FollowAuto: the field is empty or has only ever held suggested
	// values; cron/tag changes may rewrite it.
	FollowAuto FollowState = iota
	// FollowFrozen: the operator typed a custom name; only an explicit
	// suggestion request or clearing the field unfreezes it.
	FollowFrozen
)

// Observe feeds a user edit of the name field into the state machine and
// returns the next state. A non-empty typed value freezes the field; an
// empty value resumes auto-follow.
func (s FollowState) Observe(typed string) FollowState {
	if strings.TrimSpace(typed) == "" {
		return FollowAuto
	}
	return FollowFrozen
}

// Invoke is the explicit "suggest a name" action; it always re-enables
// auto-follow.
func (s FollowState) Invoke() FollowState {
	return FollowAuto
}

// ShouldApply reports whether a freshly derived suggestion may be written
// into the field without an explicit request.
func (s FollowState) ShouldApply() bool {
	return s == FollowAuto
}
