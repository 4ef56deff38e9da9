package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/packrat-backup/packrat/internal/config"
)

// PluginInfo is the registry's description of one backup driver.
type PluginInfo struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}

// PluginRegistry is the external plugin registry: it owns the plugin schema
// system and connectivity tests. The console proxies, never interprets.
type PluginRegistry interface {
	List(ctx context.Context) ([]PluginInfo, error)
	Schema(ctx context.Context, key string) (json.RawMessage, error)
	Test(ctx context.Context, key string, configJSON json.RawMessage) (json.RawMessage, error)
}

// PluginClient is the HTTP implementation of PluginRegistry.
type PluginClient struct {
	baseURL string
	client  *http.Client
}

func NewPluginClient(cfg *config.Config) *PluginClient {
	return &PluginClient{
		baseURL: cfg.PluginRegistryURL,
		client:  &http.Client{Timeout: cfg.PluginRegistryTimeout},
	}
}

func (c *PluginClient) List(ctx context.Context) ([]PluginInfo, error) {
	var plugins []PluginInfo
	if err := c.getJSON(ctx, "/engine/v1/plugins", &plugins); err != nil {
		return nil, err
	}
	return plugins, nil
}

func (c *PluginClient) Schema(ctx context.Context, key string) (json.RawMessage, error) {
	var schema json.RawMessage
	if err := c.getJSON(ctx, fmt.Sprintf("/engine/v1/plugins/%s/schema", key), &schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func (c *PluginClient) Test(ctx context.Context, key string, configJSON json.RawMessage) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/engine/v1/plugins/%s/test", c.baseURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(configJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plugin registry unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("plugin test failed: %s: %s", resp.Status, string(body))
	}
	return json.RawMessage(body), nil
}

func (c *PluginClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("plugin registry unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("plugin registry error: %s: %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
