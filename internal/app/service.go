// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
//
// It orchestrates the three data sources (vendor dialer API, external
// meeting source, static roster), runs reconciliation, and drives the
// two-step model conversation behind natural-language queries. The
// vendor is authoritative: its failure fails the request, while a
// meeting-source failure only degrades the response to vendor-only
// counts.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/salesdeck/pulse/internal/adapters/dialer"
	"github.com/salesdeck/pulse/internal/adapters/llm"
	"github.com/salesdeck/pulse/internal/cache"
	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/internal/domain/reconcile"
	"github.com/salesdeck/pulse/pkg/logger"
	"github.com/salesdeck/pulse/pkg/metrics"
)

const (
	defaultMeetingFetchTimeout = 10 * time.Second
	defaultMaxLookbackDays     = 180
	defaultLookbackDays        = 7
)

// VendorClient is the dialer API surface the service needs.
type VendorClient interface {
	Users(ctx context.Context) ([]model.VendorUser, json.RawMessage, error)
	MetricValues(ctx context.Context, stages []dialer.StageMetric, dateRange model.DateRange) (map[string]map[string]int, error)
}

// MeetingSource loads grouped external meeting records.
type MeetingSource interface {
	Fetch(ctx context.Context) ([]model.MeetingGroup, error)
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	vendor   VendorClient
	meetings *cache.ReadThrough[[]model.MeetingGroup]
	roster   reconcile.TeamResolver
	model    llm.Client
	engine   *reconcile.Engine
	stages   []dialer.StageMetric

	// Configuration
	meetingFetchTimeout time.Duration
	maxLookbackDays     int
	cacheTTL            time.Duration

	// State
	started       bool
	lastRowCount  int
	lastDegraded  bool
	lastReconcile reconcile.Stats

	// Logging
	logger logger.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMeetingFetchTimeout bounds how long a request waits on the
// meeting source before degrading.
func WithMeetingFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.meetingFetchTimeout = d
		}
	}
}

// WithMaxLookbackDays caps how far back any request may reach.
func WithMaxLookbackDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.maxLookbackDays = days
		}
	}
}

// WithCacheTTL sets the meeting cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithReconcileEngine replaces the default reconciliation engine.
func WithReconcileEngine(engine *reconcile.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithStages replaces the default vendor stage metrics.
func WithStages(stages []dialer.StageMetric) Option {
	return func(s *Service) {
		if len(stages) > 0 {
			s.stages = stages
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithNow replaces the clock. Tests pin it.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates the Service around its four upstreams.
func New(vendor VendorClient, meetings MeetingSource, roster reconcile.TeamResolver, modelClient llm.Client, opts ...Option) *Service {
	s := &Service{
		vendor:              vendor,
		roster:              roster,
		model:               modelClient,
		meetingFetchTimeout: defaultMeetingFetchTimeout,
		maxLookbackDays:     defaultMaxLookbackDays,
		cacheTTL:            cache.DefaultTTL,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.engine == nil {
		s.engine = reconcile.New(reconcile.WithLogger(s.logger))
	}
	if s.stages == nil {
		s.stages = dialer.DefaultStages()
	}
	s.meetings = cache.NewReadThrough(s.cacheTTL, func(ctx context.Context) ([]model.MeetingGroup, error) {
		return meetings.Fetch(ctx)
	})
	return s
}

// Start warms the meeting cache and marks the service ready. A failed
// warm-up is logged, not fatal; the first request will retry.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting dashboard service...")

	warmCtx, cancel := context.WithTimeout(ctx, s.meetingFetchTimeout)
	defer cancel()
	if groups, err := s.meetings.Get(warmCtx); err != nil {
		s.logger.Warn(ctx, "meeting cache warm-up failed", logger.Error(err))
	} else {
		s.logger.Info(ctx, "meeting cache warmed", logger.Int("groups", len(groups)))
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Duration("cacheTTL", s.cacheTTL),
		logger.Int("maxLookbackDays", s.maxLookbackDays),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// RangeStrings is a date range rendered for JSON responses.
type RangeStrings struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MetricsData is one reconciled dashboard payload.
type MetricsData struct {
	Rows      []model.MetricRow `json:"rows"`
	DateRange RangeStrings      `json:"dateRange"`
	// Degraded is set when the meeting source failed and rows carry
	// vendor counts only.
	Degraded bool `json:"degraded"`
}

// Answer is the response to a natural-language question.
type Answer struct {
	Query     string       `json:"query"`
	Answer    string       `json:"answer"`
	Intent    string       `json:"intent"`
	DateRange RangeStrings `json:"dateRange"`
	// DataUsed carries the reconciled rows the summary was given.
	DataUsed []model.MetricRow `json:"dataUsed"`
	Degraded bool              `json:"degraded"`
}

// UsersData lists the vendor's active dialer accounts.
type UsersData struct {
	Users []model.VendorUser `json:"users"`
	Team  json.RawMessage    `json:"team,omitempty"`
}

// ResolveRange turns request parameters into a validated range. Empty
// start and end fall back to a recent-days lookback; the result is
// clamped to the configured maximum lookback.
func (s *Service) ResolveRange(startDate, endDate string, days int) (model.DateRange, error) {
	if startDate == "" && endDate == "" {
		if days <= 0 {
			days = defaultLookbackDays
		}
		if days > s.maxLookbackDays {
			days = s.maxLookbackDays
		}
		return model.Lookback(days, s.now()), nil
	}

	dateRange, err := model.ParseDateRange(startDate, endDate)
	if err != nil {
		return model.DateRange{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	return s.clampRange(dateRange), nil
}

// clampRange pulls the start forward so the span never exceeds the
// configured lookback limit.
func (s *Service) clampRange(r model.DateRange) model.DateRange {
	earliest := r.End.AddDate(0, 0, -(s.maxLookbackDays - 1))
	if r.Start.Before(earliest) {
		s.logger.Warn(context.Background(), "date range clamped to lookback limit",
			logger.String("requestedStart", r.StartString()),
			logger.String("clampedStart", earliest.Format(model.ISODate)))
		r.Start = earliest
	}
	return r
}

// MetricsData fetches, reconciles, and ranks rows for the range.
func (s *Service) MetricsData(ctx context.Context, dateRange model.DateRange) (MetricsData, error) {
	metrics.RecordMetricsQuery()

	var (
		wg sync.WaitGroup

		users        []model.VendorUser
		usersErr     error
		vendorValues map[string]map[string]int
		valuesErr    error
		groups       []model.MeetingGroup
		groupsErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		users, _, usersErr = s.vendor.Users(ctx)
	}()
	go func() {
		defer wg.Done()
		vendorValues, valuesErr = s.vendor.MetricValues(ctx, s.stages, dateRange)
	}()
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.meetingFetchTimeout)
		defer cancel()
		groups, groupsErr = s.meetings.Get(fetchCtx)
	}()
	wg.Wait()

	if usersErr != nil {
		metrics.RecordUpstreamFailure("vendor")
		return MetricsData{}, fmt.Errorf("%w: %w", ErrVendorUnavailable, usersErr)
	}
	if valuesErr != nil {
		metrics.RecordUpstreamFailure("vendor")
		return MetricsData{}, fmt.Errorf("%w: %w", ErrVendorUnavailable, valuesErr)
	}

	degraded := false
	if groupsErr != nil {
		degraded = true
		groups = nil
		metrics.RecordDegradedQuery()
		s.logger.Warn(ctx, "meeting source unavailable, serving vendor counts only",
			logger.Error(groupsErr))
	}

	rows, stats := s.engine.Reconcile(ctx, users, vendorValues, groups, s.roster, dateRange)

	metrics.UpdateRowsProduced(len(rows))
	metrics.RecordMeetingGroupsMatched(stats.MatchedGroups)
	metrics.RecordMeetingGroupsOrphaned(stats.OrphanGroups)
	metrics.RecordMeetingRecordsExcluded(stats.RecordsExcluded)

	s.mu.Lock()
	s.lastRowCount = len(rows)
	s.lastDegraded = degraded
	s.lastReconcile = stats
	s.mu.Unlock()

	s.logger.Info(ctx, "metrics data assembled",
		logger.String("start", dateRange.StartString()),
		logger.String("end", dateRange.EndString()),
		logger.Int("rows", len(rows)),
		logger.Int("matchedGroups", stats.MatchedGroups),
		logger.Int("orphanGroups", stats.OrphanGroups))

	return MetricsData{
		Rows:      rows,
		DateRange: RangeStrings{Start: dateRange.StartString(), End: dateRange.EndString()},
		Degraded:  degraded,
	}, nil
}

// Ask answers a natural-language question: extract the date range,
// assemble the data for it, summarize.
func (s *Service) Ask(ctx context.Context, query string) (Answer, error) {
	if query == "" {
		return Answer{}, ErrEmptyQuery
	}
	metrics.RecordAIQuery()

	intent, err := s.model.ExtractDateRange(ctx, query, s.now())
	if err != nil {
		return Answer{}, err
	}

	dateRange, err := model.ParseDateRange(intent.StartDate, intent.EndDate)
	if err != nil {
		return Answer{}, &llm.ExtractionError{
			Raw:    fmt.Sprintf("%s to %s", intent.StartDate, intent.EndDate),
			Reason: err,
		}
	}
	dateRange = s.clampRange(dateRange)

	data, err := s.MetricsData(ctx, dateRange)
	if err != nil {
		return Answer{}, err
	}

	answer, err := s.model.Summarize(ctx, query, intent, data.Rows)
	if err != nil {
		return Answer{}, err
	}

	s.logger.Info(ctx, "question answered",
		logger.String("intent", intent.Intent),
		logger.String("start", data.DateRange.Start),
		logger.String("end", data.DateRange.End),
		logger.Int("answerLen", len(answer)))

	return Answer{
		Query:     query,
		Answer:    answer,
		Intent:    intent.Intent,
		DateRange: data.DateRange,
		DataUsed:  data.Rows,
		Degraded:  data.Degraded,
	}, nil
}

// Users lists the vendor's active dialer accounts.
func (s *Service) Users(ctx context.Context) (UsersData, error) {
	users, team, err := s.vendor.Users(ctx)
	if err != nil {
		metrics.RecordUpstreamFailure("vendor")
		return UsersData{}, fmt.Errorf("%w: %w", ErrVendorUnavailable, err)
	}
	return UsersData{Users: users, Team: team}, nil
}

// RefreshMeetings drops the cached meeting data so the next request
// reloads it.
func (s *Service) RefreshMeetings() {
	s.meetings.Invalidate()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":              s.started,
		"cacheTTLSeconds":      int(s.cacheTTL.Seconds()),
		"maxLookbackDays":      s.maxLookbackDays,
		"lastRowCount":         s.lastRowCount,
		"lastDegraded":         s.lastDegraded,
		"lastMatchedGroups":    s.lastReconcile.MatchedGroups,
		"lastOrphanGroups":     s.lastReconcile.OrphanGroups,
		"lastRecordsExcluded":  s.lastReconcile.RecordsExcluded,
		"lastRecordsOutside":   s.lastReconcile.RecordsOutside,
		"lastRecordsMatched":   s.lastReconcile.RecordsMatched,
		"meetingGroupsFetched": s.lastReconcile.Groups,
	}
}
