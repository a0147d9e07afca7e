package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/spektr-org/kpiview/filters"
	"github.com/spektr-org/kpiview/helpers"
	"github.com/spektr-org/kpiview/schema"
)

// ============================================================================
// BACKEND CLIENT: Thin HTTP adapter for the KPI dashboard API
// ============================================================================
// Endpoints:
//   GET  /filters/            filter options + date range
//   GET  /dashboard/initial   unfiltered dashboard
//   POST /dashboard/          filtered dashboard, body {"filters": Query}
//   GET  /dashboard/kpis      KPI definitions
//   GET  /dashboard/health    backend status
//
// No retries and no caching. Superseded fetches are the caller's concern;
// cancel the context to drop one.
// ============================================================================

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://127.0.0.1:8000/api"

// ErrStatus matches any non-2xx response via errors.Is.
var ErrStatus = errors.New("unexpected backend status")

// StatusError carries a non-2xx response.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Path, e.Code, e.Body)
}

// Is makes errors.Is(err, ErrStatus) true for every StatusError.
func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the dashboard API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client. Zero config values fall back to the defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Filters fetches filter options and the available date range.
func (c *Client) Filters(ctx context.Context) (*filters.Response, error) {
	body, err := c.do(ctx, http.MethodGet, "/filters/", nil)
	if err != nil {
		return nil, err
	}
	return helpers.DecodeFilters(body)
}

// Dashboard fetches every KPI for q. An empty query uses the initial
// dashboard endpoint; anything else is POSTed.
func (c *Client) Dashboard(ctx context.Context, q filters.Query) (*helpers.Dashboard, error) {
	var (
		body []byte
		err  error
	)
	if q.IsEmpty() {
		body, err = c.do(ctx, http.MethodGet, "/dashboard/initial", nil)
	} else {
		body, err = c.do(ctx, http.MethodPost, "/dashboard/", struct {
			Filters filters.Query `json:"filters"`
		}{q})
	}
	if err != nil {
		return nil, err
	}

	dash, err := helpers.DecodeDashboard(body)
	if err != nil {
		return nil, err
	}
	if len(dash.FailedTools) > 0 {
		log.Printf("⚠️ kpiview backend: %d KPI tools failed: %s", len(dash.FailedTools), strings.Join(dash.FailedTools, ", "))
	}
	log.Printf("✅ kpiview backend: received %d KPIs", len(dash.Datasets))
	return dash, nil
}

// KPIs fetches the backend's KPI definitions.
func (c *Client) KPIs(ctx context.Context) ([]schema.KpiDefinition, error) {
	body, err := c.do(ctx, http.MethodGet, "/dashboard/kpis", nil)
	if err != nil {
		return nil, err
	}
	return helpers.DecodeKpis(body)
}

// Health fetches the backend status.
func (c *Client) Health(ctx context.Context) (*helpers.Health, error) {
	body, err := c.do(ctx, http.MethodGet, "/dashboard/health", nil)
	if err != nil {
		return nil, err
	}
	return helpers.DecodeHealth(body)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Printf("🔄 kpiview backend: %s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Path: path, Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
