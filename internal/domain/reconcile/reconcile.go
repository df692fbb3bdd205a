// Package reconcile joins vendor metric rows with externally sourced
// meeting records and the team roster.
//
// The three sources share no identity key, so the join runs on fuzzy
// name matching (names.Match). One MetricRow comes out per vendor-known
// user; meeting groups that match nobody are counted as orphans.
package reconcile

import (
	"context"
	"sort"

	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/internal/domain/names"
	"github.com/salesdeck/pulse/pkg/logger"
)

// TeamResolver resolves a display name to a team name, returning
// model.TeamUnknown when nothing matches.
type TeamResolver interface {
	TeamFor(name string) string
}

// Stats summarizes one reconciliation pass over the meeting source.
type Stats struct {
	Groups          int `json:"groups"`
	MatchedGroups   int `json:"matchedGroups"`
	OrphanGroups    int `json:"orphanGroups"`
	RecordsMatched  int `json:"recordsMatched"`
	RecordsExcluded int `json:"recordsExcluded"`
	RecordsOutside  int `json:"recordsOutsideRange"`
}

// Engine merges the sources into sorted dashboard rows.
type Engine struct {
	excludedSource string
	primaryMetric  string
	log            logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithExcludedLeadSource sets the lead-source sentinel whose records
// never count toward meeting totals.
func WithExcludedLeadSource(source string) Option {
	return func(e *Engine) {
		e.excludedSource = source
	}
}

// WithPrimaryMetric sets the metric label rows are sorted by.
func WithPrimaryMetric(label string) Option {
	return func(e *Engine) {
		if label != "" {
			e.primaryMetric = label
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine. Without options it sorts by Dial and excludes
// nothing.
func New(opts ...Option) *Engine {
	e := &Engine{
		primaryMetric: model.MetricDial,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile produces one row per vendor user.
//
// vendorValues maps metric label -> userId -> count. groups may be nil
// or empty when the meeting source degraded; rows then carry vendor
// counts only. The range has already been validated by the caller.
func (e *Engine) Reconcile(
	ctx context.Context,
	users []model.VendorUser,
	vendorValues map[string]map[string]int,
	groups []model.MeetingGroup,
	roster TeamResolver,
	dateRange model.DateRange,
) ([]model.MetricRow, Stats) {
	stats := Stats{Groups: len(groups)}

	// Filter each group once up front; the per-user scan below only
	// matches names and appends.
	filtered := make([][]model.MeetingRecord, len(groups))
	for i, g := range groups {
		kept := make([]model.MeetingRecord, 0, len(g.Records))
		for _, rec := range g.Records {
			if e.excludedSource != "" && rec.SourceOfLead == e.excludedSource {
				stats.RecordsExcluded++
				continue
			}
			if !dateRange.Contains(rec.Timestamp) {
				stats.RecordsOutside++
				continue
			}
			kept = append(kept, rec)
		}
		filtered[i] = kept
	}

	matched := make([]bool, len(groups))
	rows := make([]model.MetricRow, 0, len(users))

	for _, user := range users {
		row := model.MetricRow{
			UserID:   user.UserID,
			UserName: user.UserName,
			Team:     model.TeamUnknown,
			Values:   make(map[string]int, len(model.MetricLabels)),
			Meetings: []model.MeetingDetail{},
		}
		for _, label := range model.MetricLabels {
			row.Values[label] = vendorValues[label][user.UserID]
		}

		external := 0
		for i, g := range groups {
			if !names.Match(user.UserName, g.DisplayName) {
				continue
			}
			matched[i] = true
			for _, rec := range filtered[i] {
				row.Meetings = append(row.Meetings, model.MeetingDetail{
					Timestamp:         rec.Timestamp,
					LeadName:          rec.LeadName,
					CompanyName:       rec.CompanyName,
					CurrentStage:      rec.CurrentStage,
					MeetingBookedDate: rec.MeetingBookedDate,
					SourceOfLead:      rec.SourceOfLead,
					Source:            model.MeetingDetailSourceSheet,
				})
			}
			external += len(filtered[i])
		}
		stats.RecordsMatched += external

		vendorMeetings := row.Values[model.MetricMeeting]
		row.Values[model.MetricMeeting] = vendorMeetings + external
		row.MeetingCounts = model.MeetingCounts{
			Vendor:   vendorMeetings,
			External: external,
			Total:    vendorMeetings + external,
		}

		if roster != nil {
			row.Team = roster.TeamFor(user.UserName)
		}

		// Newest first.
		sort.SliceStable(row.Meetings, func(a, b int) bool {
			return row.Meetings[a].Timestamp.After(row.Meetings[b].Timestamp)
		})

		rows = append(rows, row)
	}

	for i := range groups {
		if matched[i] {
			stats.MatchedGroups++
		} else {
			stats.OrphanGroups++
			if e.log != nil {
				e.log.Debug(ctx, "meeting group matched no vendor user",
					logger.String("name", groups[i].DisplayName),
					logger.Int("records", groups[i].Count()))
			}
		}
	}

	// Primary metric descending; ties keep vendor user order.
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Values[e.primaryMetric] > rows[b].Values[e.primaryMetric]
	})

	return rows, stats
}
