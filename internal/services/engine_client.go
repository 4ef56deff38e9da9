package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/packrat-backup/packrat/internal/config"
)

// RunDispatcher hands immediate-run requests to the external execution
// engine. The engine owns scheduling and backup execution; the console only
// asks and records.
type RunDispatcher interface {
	TriggerRun(ctx context.Context, jobID, runID uuid.UUID) error
}

// EngineClient is the HTTP implementation of RunDispatcher.
type EngineClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewEngineClient(cfg *config.Config) *EngineClient {
	return &EngineClient{
		baseURL: cfg.EngineURL,
		token:   cfg.EngineCallbackToken,
		client:  &http.Client{Timeout: cfg.EngineTimeout},
	}
}

func (c *EngineClient) TriggerRun(ctx context.Context, jobID, runID uuid.UUID) error {
	payload, err := json.Marshal(map[string]string{
		"job_id": jobID.String(),
		"run_id": runID.String(),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/engine/v1/runs", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		// Same shared secret in both directions; the engine echoes it back
		// on its result callbacks.
		req.Header.Set("X-Engine-Token", c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("engine rejected run: %s: %s", resp.Status, string(body))
	}
	return nil
}
