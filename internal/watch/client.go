// Package watch is a terminal client for the monitor's /status and /history
// endpoints.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"

	"github.com/okian/pixwatch/internal/domain/types"
)

const (
	statusPath  = "/status"
	historyPath = "/history"

	defaultTimeout = 5 * time.Second
	userAgent      = "pixwatch-watch"
	headerReqID    = "X-Request-ID"
)

// Client fetches status and history from a running monitor. It never
// retries; the next poll is the retry.
type Client struct {
	client *req.Client
}

// NewClient creates a client for the monitor at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := req.C().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetUserAgent(userAgent)
	return &Client{client: c}, nil
}

// FetchStatus returns the current status record.
func (c *Client) FetchStatus(ctx context.Context) (types.StatusRecord, error) {
	var rec types.StatusRecord
	if err := c.getJSON(ctx, statusPath, &rec); err != nil {
		return types.StatusRecord{}, err
	}
	return rec, nil
}

// FetchHistory returns the failure log in server order (oldest first).
func (c *Client) FetchHistory(ctx context.Context) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry
	if err := c.getJSON(ctx, historyPath, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader(headerReqID, uuid.NewString()).
		Get(path)
	if err != nil {
		return fmt.Errorf("watch: get %s: %w", path, err)
	}
	if !res.IsSuccessState() {
		return fmt.Errorf("%w: get %s: %d", ErrUnexpectedStatus, path, res.StatusCode)
	}
	body, err := res.ToBytes()
	if err != nil {
		return fmt.Errorf("watch: read %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return nil
}
