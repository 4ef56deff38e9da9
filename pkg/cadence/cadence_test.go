package cadence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"every n minutes", "*/15 * * * *", "Every 15 minutes"},
		{"every 5 minutes", "*/5 * * * *", "Every 5 minutes"},
		{"hourly", "30 * * * *", "Every hour at :30"},
		{"hourly zero padded", "5 * * * *", "Every hour at :05"},
		{"daily afternoon", "30 14 * * *", "Every day at 2:30 PM"},
		{"daily midnight", "0 0 * * *", "Every day at 12:00 AM"},
		{"daily noon", "0 12 * * *", "Every day at 12:00 PM"},
		{"weekly single day", "0 9 * * 1", "Every Mon at 9:00 AM"},
		{"weekly seven is sunday", "0 9 * * 7", "Every Sun at 9:00 AM"},
		{"weekly list", "15 8 * * 1,3,5", "Every Mon,Wed,Fri at 8:15 AM"},
		{"weekly range", "0 18 * * 1-5", "Every Mon-Fri at 6:00 PM"},
		{"monthly first", "0 0 1 * *", "Every month on the 1st at 12:00 AM"},
		{"monthly ordinal nd", "0 6 22 * *", "Every month on the 22nd at 6:00 AM"},
		{"monthly ordinal th teens", "0 6 13 * *", "Every month on the 13th at 6:00 AM"},
		{"monthly ordinal rd", "30 23 3 * *", "Every month on the 3rd at 11:30 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Humanize(tt.expr)
			require.True(t, ok, "expected %q to be recognized", tt.expr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHumanizeUnrecognized(t *testing.T) {
	exprs := []string{
		"x y z",             // wrong field count
		"",                  // empty
		"* * * * *",         // bare wildcard everywhere
		"0 9 * 6 *",         // fixed month not modeled
		"0 9 1 * 1",         // day-of-month and day-of-week together
		"*/15 3 * * *",      // step minute with fixed hour
		"0 9 * * 8",         // day-of-week out of range
		"a b * * *",         // non-numeric fields
		"0 9 * * 1-5 extra", // six fields
	}
	for _, expr := range exprs {
		got, ok := Humanize(expr)
		assert.False(t, ok, "expected %q to be unrecognized", expr)
		assert.Empty(t, got)
	}
}

// Humanize and Classify must agree on what is recognizable.
func TestClassifyHumanizeAgree(t *testing.T) {
	exprs := []string{
		"*/15 * * * *", "30 * * * *", "30 14 * * *", "0 9 * * 1",
		"0 0 1 * *", "x y z", "* * * * *", "0 9 1 * 1", "",
	}
	for _, expr := range exprs {
		_, classified := Classify(expr)
		_, humanized := Humanize(expr)
		assert.Equal(t, classified, humanized, "Classify/Humanize disagree on %q", expr)
	}
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"30 14 * * *", "Daily"},
		{"0 9 * * 1", "Weekly"},
		{"0 0 1 * *", "Monthly"},
		{"*/15 * * * *", ""}, // sub-daily cadences carry no prefix
		{"30 * * * *", ""},
	}
	for _, tt := range tests {
		c, ok := Classify(tt.expr)
		require.True(t, ok)
		assert.Equal(t, tt.want, c.Prefix(), "prefix for %q", tt.expr)
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// */N in the minute field wins over everything else.
	c, ok := Classify("*/10 * * * *")
	require.True(t, ok)
	assert.Equal(t, EveryNMinutes, c.Kind)
	assert.Equal(t, 10, c.EveryN)

	c, ok = Classify("45 3 * * *")
	require.True(t, ok)
	assert.Equal(t, Daily, c.Kind)
	assert.Equal(t, 45, c.Minute)
	assert.Equal(t, 3, c.Hour)
}
