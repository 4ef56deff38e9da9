// Package cadence classifies 5-field cron expressions into the handful of
// recurrence shapes the console knows how to describe, and renders them as
// human sentences. Anything outside the recognized shapes is reported as
// unrecognized rather than an error: these values feed straight into display
// paths.
package cadence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the recognized recurrence category of a cron expression.
type Kind int

const (
	EveryNMinutes Kind = iota
	Hourly
	Daily
	Weekly
	Monthly
)

// Cadence is the parsed classification of a recognized cron expression.
type Cadence struct {
	Kind Kind

	// EveryN is set for EveryNMinutes.
	EveryN int
	// Minute and Hour are set for Hourly (minute only) and above.
	Minute int
	Hour   int
	// Days holds day-of-week values (0=Sun..6=Sat) for Weekly, in input order.
	Days []int
	// DaysAreRange marks Days as an a-b range rather than a list.
	DaysAreRange bool
	// DayOfMonth is set for Monthly.
	DayOfMonth int
}

var (
	everyNRe = regexp.MustCompile(`^\*/(\d{1,2})$`)
	fixedRe  = regexp.MustCompile(`^\d{1,2}$`)
	rangeRe  = regexp.MustCompile(`^(\d)-(\d)$`)
	listRe   = regexp.MustCompile(`^\d(,\d)*$`)
)

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Classify parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week) into a Cadence. The second
// return value is false for any other field count or any expression outside
// the recognized patterns; Classify never panics on malformed input.
func Classify(expr string) (Cadence, bool) {
	fields := strings.Fields(strings.TrimSpace(expr))
	if len(fields) != 5 {
		return Cadence{}, false
	}
	minute, hour, dom, month, dow := fields[0], fields[1], fields[2], fields[3], fields[4]

	// Precedence matters: first match wins.
	if m := everyNRe.FindStringSubmatch(minute); m != nil && hour == "*" && dom == "*" && month == "*" && dow == "*" {
		n, _ := strconv.Atoi(m[1])
		return Cadence{Kind: EveryNMinutes, EveryN: n}, true
	}

	if !fixedRe.MatchString(minute) {
		return Cadence{}, false
	}
	min, _ := strconv.Atoi(minute)

	if hour == "*" && dom == "*" && month == "*" && dow == "*" {
		return Cadence{Kind: Hourly, Minute: min}, true
	}

	if !fixedRe.MatchString(hour) {
		return Cadence{}, false
	}
	hr, _ := strconv.Atoi(hour)

	if dom == "*" && month == "*" && dow == "*" {
		return Cadence{Kind: Daily, Minute: min, Hour: hr}, true
	}

	if dom == "*" && month == "*" {
		if days, isRange, ok := parseDayOfWeek(dow); ok {
			return Cadence{Kind: Weekly, Minute: min, Hour: hr, Days: days, DaysAreRange: isRange}, true
		}
		return Cadence{}, false
	}

	if fixedRe.MatchString(dom) && month == "*" && dow == "*" {
		d, _ := strconv.Atoi(dom)
		return Cadence{Kind: Monthly, Minute: min, Hour: hr, DayOfMonth: d}, true
	}

	return Cadence{}, false
}

// Humanize renders a recognized cron expression as a short English sentence,
// e.g. "Every day at 2:30 PM". ok is false exactly when Classify fails.
func Humanize(expr string) (string, bool) {
	c, ok := Classify(expr)
	if !ok {
		return "", false
	}
	switch c.Kind {
	case EveryNMinutes:
		return fmt.Sprintf("Every %d minutes", c.EveryN), true
	case Hourly:
		return fmt.Sprintf("Every hour at :%02d", c.Minute), true
	case Daily:
		return fmt.Sprintf("Every day at %s", clock12(c.Hour, c.Minute)), true
	case Weekly:
		return fmt.Sprintf("Every %s at %s", c.dayLabel(), clock12(c.Hour, c.Minute)), true
	case Monthly:
		return fmt.Sprintf("Every month on the %s at %s", ordinal(c.DayOfMonth), clock12(c.Hour, c.Minute)), true
	}
	return "", false
}

// Prefix returns the short cadence token used in suggested job names:
// "Daily", "Weekly" or "Monthly". Sub-daily cadences carry no prefix.
func (c Cadence) Prefix() string {
	switch c.Kind {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	}
	return ""
}

func (c Cadence) dayLabel() string {
	names := make([]string, len(c.Days))
	for i, d := range c.Days {
		names[i] = dayNames[d]
	}
	if c.DaysAreRange {
		return strings.Join(names, "-")
	}
	return strings.Join(names, ",")
}

// parseDayOfWeek accepts a single value, a range a-b, or a comma list, with
// values drawn from 0-7 (7 aliases to Sunday).
func parseDayOfWeek(field string) (days []int, isRange bool, ok bool) {
	if m := rangeRe.FindStringSubmatch(field); m != nil {
		a, b := m[1], m[2]
		da, okA := dayValue(a)
		db, okB := dayValue(b)
		if !okA || !okB {
			return nil, false, false
		}
		return []int{da, db}, true, true
	}
	if listRe.MatchString(field) {
		for _, part := range strings.Split(field, ",") {
			d, valid := dayValue(part)
			if !valid {
				return nil, false, false
			}
			days = append(days, d)
		}
		return days, false, true
	}
	return nil, false, false
}

func dayValue(s string) (int, bool) {
	d, err := strconv.Atoi(s)
	if err != nil || d < 0 || d > 7 {
		return 0, false
	}
	if d == 7 {
		d = 0
	}
	return d, true
}

// clock12 formats on a 12-hour clock with no leading zero on the hour.
func clock12(hour, minute int) string {
	suffix := "AM"
	h := hour
	switch {
	case h == 0:
		h = 12
	case h == 12:
		suffix = "PM"
	case h > 12:
		h -= 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}

// ordinal renders 1 -> "1st", 2 -> "2nd", 11-13 -> "th", otherwise by last digit.
func ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}
