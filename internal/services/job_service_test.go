package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/pkg/retention"
)

func TestValidateCron(t *testing.T) {
	valid := []string{
		"*/15 * * * *",
		"0 * * * *",
		"30 14 * * *",
		"0 9 * * 1",
		"0 0 1 * *",
		"5 4 * * 1-5",
		"0 12 * * 1,3,5",
	}
	for _, expr := range valid {
		assert.NoError(t, validateCron(expr), expr)
	}

	invalid := []string{
		"",
		"* * * *",
		"* * * * * *",
		"x y z w v",
		"61 * * * *",
		"0 25 * * *",
	}
	for _, expr := range invalid {
		assert.Error(t, validateCron(expr), expr)
	}
}

func TestDecorateJob(t *testing.T) {
	global := retention.Marshal(retention.Build(30, 0, 0))

	t.Run("override wins over global", func(t *testing.T) {
		override := retention.Marshal(retention.Build(0, 6, 0))
		job := &models.Job{ScheduleCron: "30 14 * * *", RetentionPolicyJSON: override}

		v := decorateJob(job, global)
		assert.Equal(t, "Every day at 2:30 PM", v.ScheduleHuman)
		assert.Equal(t, "override", v.RetentionSource)
		assert.Equal(t, 6, v.Retention.Weekly)
		// The global daily tier must not leak into the override.
		assert.Equal(t, retention.DefaultDailyWindow, v.Retention.Daily)
	})

	t.Run("no override falls back to global", func(t *testing.T) {
		job := &models.Job{ScheduleCron: "0 9 * * 1"}

		v := decorateJob(job, global)
		assert.Equal(t, "Every Mon at 9:00 AM", v.ScheduleHuman)
		assert.Equal(t, "global", v.RetentionSource)
		assert.Equal(t, 30, v.Retention.Daily)
	})

	t.Run("unrecognized cadence leaves schedule human empty", func(t *testing.T) {
		job := &models.Job{ScheduleCron: "0 9 1 * 1"}

		v := decorateJob(job, nil)
		assert.Empty(t, v.ScheduleHuman)
		assert.False(t, v.Retention.Enabled)
	})
}

func TestSuggestName(t *testing.T) {
	s := &JobService{}

	t.Run("prefix from cadence plus context", func(t *testing.T) {
		assert.Equal(t, "Daily Postgres Backup", s.SuggestName("30 14 * * *", "Postgres", ""))
		assert.Equal(t, "Weekly Postgres Backup", s.SuggestName("0 9 * * 1", "Postgres", ""))
		assert.Equal(t, "Monthly Postgres Backup", s.SuggestName("0 0 1 * *", "Postgres", ""))
	})

	t.Run("switching cadence replaces the prefix", func(t *testing.T) {
		first := s.SuggestName("30 14 * * *", "Postgres", "")
		second := s.SuggestName("0 9 * * 1", "Postgres", first)
		assert.Equal(t, "Weekly Postgres Backup", second)
		// And back again, no prefix stacking.
		third := s.SuggestName("30 14 * * *", "Postgres", second)
		assert.Equal(t, "Daily Postgres Backup", third)
	})

	t.Run("no context yields the bare prefix", func(t *testing.T) {
		assert.Equal(t, "Daily", s.SuggestName("30 14 * * *", "", ""))
	})

	t.Run("sub-daily cadence has no prefix", func(t *testing.T) {
		assert.Equal(t, "Postgres Backup", s.SuggestName("*/15 * * * *", "Postgres", ""))
	})
}
