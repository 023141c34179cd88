package jira

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/relgate/internal/common"
)

// Client talks to the Jira issue API with basic authentication. Each
// request is an independent, blocking GET with the configured timeout;
// there is no retry logic.
type Client struct {
	client   *http.Client
	baseURL  string
	username string
	apiToken string
	logger   arbor.ILogger
}

// NewClient creates a Jira client from the resolved configuration.
func NewClient(cfg common.JiraConfig, timeout time.Duration, logger arbor.ILogger) *Client {
	return &Client{
		client:   &http.Client{Timeout: timeout},
		baseURL:  cfg.URL,
		username: cfg.Username,
		apiToken: cfg.APIToken,
		logger:   logger,
	}
}

func (c *Client) makeRequest(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Str("url", reqURL).
			Int("status", resp.StatusCode).
			Msg("Jira request failed")
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, readErr
}
