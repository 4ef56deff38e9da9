package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/packrat-backup/packrat/internal/models"
)

func TestNewScheduledRun(t *testing.T) {
	jobID := uuid.New()

	tests := []struct {
		name  string
		runID uuid.UUID
		jobID *uuid.UUID
	}{
		{
			name:  "engine allocated id with job",
			runID: uuid.New(),
			jobID: &jobID,
		},
		{
			name:  "engine allocated id without job",
			runID: uuid.New(),
			jobID: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newScheduledRun(tt.runID, tt.jobID)

			assert.Equal(t, tt.runID, run.ID, "engine allocated id must be preserved")
			assert.Equal(t, tt.jobID, run.JobID)
			assert.Equal(t, models.RunStatusRunning, run.Status)
			assert.Equal(t, "scheduled", run.Trigger)
		})
	}
}
