// Package budgetapi fetches the remote budget dataset served at GET /budget.
package budgetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/budgetview/internal/model"
)

const (
	// DefaultBaseURL is where the budget server listens out of the box.
	DefaultBaseURL = "http://localhost:4000"

	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	budgetPath     = "/budget"
)

var (
	// ErrUnexpectedStatus indicates a non-2xx response.
	ErrUnexpectedStatus = errors.New("budgetapi: unexpected status")
	// ErrMalformedBody indicates a body that is not a valid budget payload.
	ErrMalformedBody = errors.New("budgetapi: malformed body")
)

// Client fetches budget data from a budget server.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for baseURL. An empty baseURL uses
// DefaultBaseURL; a non-positive timeout uses the 10s default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
	}
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchBudget performs one GET /budget and returns the parsed dataset.
func (c *Client) FetchBudget(ctx context.Context) (*model.BudgetDataset, error) {
	body, err := c.get(ctx, budgetPath)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// Decode parses a GET /budget body into a dataset.
func Decode(body []byte) (*model.BudgetDataset, error) {
	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if raw.MyBudget == nil {
		return nil, fmt.Errorf("%w: missing myBudget", ErrMalformedBody)
	}

	slices := make([]model.BudgetSlice, 0, len(*raw.MyBudget))
	for i, s := range *raw.MyBudget {
		v, ok := parseBudget(s.Budget)
		if !ok {
			return nil, fmt.Errorf("%w: slice %d (%q) has unparseable budget %s", ErrMalformedBody, i, s.Title, s.Budget)
		}
		slices = append(slices, model.BudgetSlice{Title: s.Title, Budget: v})
	}

	ds, err := model.NewDataset(slices)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return ds, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("budgetapi: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/budgetview/1.0")

	//nolint:gosec // URL comes from user configuration
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("budgetapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("budgetapi: reading response: %w", err)
	}
	return body, nil
}

// parseBudget accepts a JSON number or a numeric string ("300", " 12.5 ").
// A missing or null budget is unparseable.
func parseBudget(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
