package meetings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/pkg/logger"
	"github.com/salesdeck/pulse/pkg/metrics"
)

const defaultFeedTimeout = 10 * time.Second

// Feed loads meeting records from a JSON webhook export. The payload is
// {"data": [{...row...}, ...]} with one object per sheet row, keyed by
// the sheet's header text.
type Feed struct {
	url        string
	httpClient *http.Client
	log        logger.Logger
}

// FeedOption applies a configuration option to the Feed.
type FeedOption func(*Feed)

// WithFeedHTTPClient sets a custom HTTP client.
func WithFeedHTTPClient(hc *http.Client) FeedOption {
	return func(f *Feed) {
		if hc != nil {
			f.httpClient = hc
		}
	}
}

// WithFeedLogger sets a custom logger for the feed.
func WithFeedLogger(log logger.Logger) FeedOption {
	return func(f *Feed) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFeed creates a Feed source for the given webhook URL.
func NewFeed(url string, opts ...FeedOption) *Feed {
	f := &Feed{
		url:        url,
		httpClient: &http.Client{Timeout: defaultFeedTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type feedPayload struct {
	Data []map[string]any `json:"data"`
}

// Fetch downloads the feed and returns grouped meeting records.
func (f *Feed) Fetch(ctx context.Context) ([]model.MeetingGroup, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamFailure("meetings")
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamFailure("meetings")
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamFailure("meetings")
		return nil, fmt.Errorf("%w: HTTP %d", ErrBadStatus, resp.StatusCode)
	}

	var payload feedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordUpstreamFailure("meetings")
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	rows := make([]rawRow, 0, len(payload.Data))
	for _, cells := range payload.Data {
		rows = append(rows, newRawRow(cells))
	}
	records := parseRecords(ctx, rows, f.log)
	groups := Group(records)

	if f.log != nil {
		f.log.Info(ctx, "meeting feed loaded",
			logger.Int("rows", len(payload.Data)),
			logger.Int("records", len(records)),
			logger.Int("groups", len(groups)))
	}
	return groups, nil
}
