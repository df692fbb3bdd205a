// Package dialer implements the client for the vendor call-metrics API.
//
// The API has an unusual transport: every request parameter is
// JSON-encoded (with non-ASCII runes escaped) and carried as an HTTP
// header, the body stays empty, and responses are plain JSON. Metric
// results arrive as bare [id, value] tuple rows.
package dialer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/pkg/logger"
	"github.com/salesdeck/pulse/pkg/metrics"
)

// Vendor endpoints.
const (
	endpointVisibleAccounts = "get-visible-accounts"
	endpointMetricDetails   = "metric-details-v6"
)

// UnknownUserID stands in for null user ids in tuple rows.
const UnknownUserID = "Unknown"

const defaultRequestTimeout = 30 * time.Second

// Client talks to the vendor metrics API.
type Client struct {
	baseURL    string
	apiKey     string
	teamID     string
	httpClient *http.Client
	log        logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTeamID scopes all queries to one vendor team.
func WithTeamID(teamID string) Option {
	return func(c *Client) {
		c.teamID = teamID
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the https://{host} base URL. Tests point this
// at an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Client for the given vendor host and API key.
func New(host, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    "https://" + host,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type accountsResponse struct {
	Users []accountUser   `json:"users"`
	Team  json.RawMessage `json:"team"`
}

type accountUser struct {
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	CanDial      bool   `json:"can_dial"`
	TeamIsActive bool   `json:"team_is_active"`
}

// Users fetches visible accounts and keeps active dialer users only
// (can_dial && team_is_active). The raw team payload is passed through
// untouched for the API response.
func (c *Client) Users(ctx context.Context) ([]model.VendorUser, json.RawMessage, error) {
	params := map[string]any{"api_key": c.apiKey}
	if c.teamID != "" {
		params["team_id"] = c.teamID
	}

	var resp accountsResponse
	if err := c.request(ctx, endpointVisibleAccounts, params, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Users == nil {
		return nil, nil, fmt.Errorf("%w: missing users field", ErrDecode)
	}

	users := make([]model.VendorUser, 0, len(resp.Users))
	for _, u := range resp.Users {
		if !u.CanDial || !u.TeamIsActive {
			continue
		}
		users = append(users, model.VendorUser{UserID: u.UserID, UserName: u.UserName})
	}
	return users, resp.Team, nil
}

// MetricValues runs every stage metric for the range and returns
// label -> userId -> count maps.
//
// The range's end day is widened by one day so the upper bound stays
// inclusive; the API takes half-open microsecond bounds.
func (c *Client) MetricValues(ctx context.Context, stages []StageMetric, dateRange model.DateRange) (map[string]map[string]int, error) {
	startMicro := dateRange.Start.UnixMicro()
	endMicro := dateRange.End.AddDate(0, 0, 1).UnixMicro()

	values := make(map[string]map[string]int, len(stages))
	for _, stage := range stages {
		params := map[string]any{
			"api_key":  c.apiKey,
			"selects":  stage.Selects,
			"cnf":      stage.CNF,
			"group_by": stage.GroupBy,
			"start":    startMicro,
			"end":      endMicro,
		}
		if c.teamID != "" {
			params["team_id"] = c.teamID
		}

		var rows []tupleRow
		if err := c.request(ctx, endpointMetricDetails, params, &rows); err != nil {
			return nil, fmt.Errorf("metric %q: %w", stage.Label, err)
		}
		values[stage.Label] = decodeTuples(rows)
	}
	return values, nil
}

// tupleRow decodes one [id, value] row. Either element may be null or
// absent.
type tupleRow []json.RawMessage

// decodeTuples converts tuple rows to a userId -> count map,
// last value wins on duplicate ids.
func decodeTuples(rows []tupleRow) map[string]int {
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		userID := UnknownUserID
		if len(row) > 0 {
			var id *string
			if err := json.Unmarshal(row[0], &id); err == nil {
				if id != nil {
					userID = *id
				}
			} else {
				// Numeric ids appear in some tenants; render them as strings.
				var n json.Number
				if err := json.Unmarshal(row[0], &n); err == nil {
					userID = n.String()
				}
			}
		}

		value := 0
		if len(row) > 1 {
			var f *float64
			if err := json.Unmarshal(row[1], &f); err == nil && f != nil {
				value = int(math.Round(*f))
			}
		}
		out[userID] = value
	}
	return out
}

// request performs one header-tunneled GET and decodes the JSON body.
func (c *Client) request(ctx context.Context, endpoint string, params map[string]any, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "text/plain")
	if err := encodeHeaderParams(req.Header, params); err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordVendorLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrBadStatus, endpoint, resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, endpoint, err)
	}

	if c.log != nil {
		c.log.Debug(ctx, "vendor request complete",
			logger.String("endpoint", endpoint),
			logger.Int("bytes", len(body)),
			logger.Duration("elapsed", time.Since(start)))
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
