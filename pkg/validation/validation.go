package validation

import (
	"strings"
)

// ValidateName validates a display name for targets, groups and jobs
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 1 && len(name) <= 120
}

// ValidateCronFieldCount checks that a cron expression has exactly five
// whitespace-separated fields. Full syntax validation is the scheduler
// parser's job; this is the cheap first gate.
func ValidateCronFieldCount(expr string) bool {
	return len(strings.Fields(strings.TrimSpace(expr))) == 5
}

// SanitizeString removes potentially harmful characters
func SanitizeString(input string) string {
	// Basic sanitization
	input = strings.TrimSpace(input)
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
