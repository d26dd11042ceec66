package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/algoviz/pkg/domain"
)

// Client implements ports.Generator against a remote generation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for the service at baseURL (for example http://localhost:5001).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateSequence calls POST /api/generate-array.
func (c *Client) GenerateSequence(ctx context.Context, size, min, max int) (domain.Sequence, error) {
	var resp GenerateArrayResponse
	req := GenerateArrayRequest{Size: &size, MinVal: &min, MaxVal: &max}
	if err := c.post(ctx, "/api/generate-array", req, &resp); err != nil {
		return nil, err
	}
	return domain.Sequence(resp.Array), nil
}

// GenerateGrid calls POST /api/generate-grid and validates the reply.
func (c *Client) GenerateGrid(ctx context.Context, rows, cols int, obstacleFraction float64) (*domain.Grid, error) {
	var resp GenerateGridResponse
	req := GenerateGridRequest{Rows: &rows, Cols: &cols, ObstaclePercentage: &obstacleFraction}
	if err := c.post(ctx, "/api/generate-grid", req, &resp); err != nil {
		return nil, err
	}
	return domain.NewGrid(resp.Grid,
		domain.Point{Row: resp.Start[0], Col: resp.Start[1]},
		domain.Point{Row: resp.End[0], Col: resp.End[1]},
	)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("generation service unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var e ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&e)
		return fmt.Errorf("generation service %s returned %d: %s", path, res.StatusCode, e.Error)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid reply from %s: %w", path, err)
	}
	return nil
}
