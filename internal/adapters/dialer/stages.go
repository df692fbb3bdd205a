package dialer

import (
	"github.com/salesdeck/pulse/internal/domain/model"
)

// Backend table and column names understood by the metric API.
const (
	tableSessionsV2     = "SESSIONS_V2"
	tableSessionMetrics = "SESSION_METRICS"

	columnResourceID   = "resource_id"
	columnStage        = "stage"
	columnLiveDuration = "live_duration"
)

// Filter operators accepted by the metric API.
const (
	operatorGT = "GT"
	operatorIN = "IN"
)

// Session stages in the vendor's pipeline model.
const (
	stagePitched      = "PITCHED"
	stageConversation = "CONVERSATION"
	stageBooked       = "BOOKED"
)

// Minimum live durations (seconds) that qualify a call for a stage.
const (
	pitchMinLiveSeconds        = 60
	conversationMinLiveSeconds = 90
)

// Filter is one conjunct in a CNF filter expression.
type Filter struct {
	ColumnName string `json:"column_name"`
	Table      string `json:"table"`
	Operator   string `json:"operator"`
	ValueSafe  any    `json:"value_safe"`
}

// Select is a CNF-filtered count column.
type Select struct {
	ColumnType string     `json:"column_type"`
	CNF        [][]Filter `json:"cnf"`
}

// GroupColumn identifies the grouping column.
type GroupColumn struct {
	Table      string `json:"table"`
	ColumnName string `json:"column_name"`
}

// GroupBy declares the grouping of a metric query.
type GroupBy struct {
	Column GroupColumn `json:"column"`
}

// StageMetric is one labelled metric query against the vendor.
type StageMetric struct {
	Label   string
	Selects []Select
	CNF     [][]Filter
	GroupBy GroupBy
}

var liveDurationGTZero = Filter{
	ColumnName: columnLiveDuration,
	Table:      tableSessionMetrics,
	Operator:   operatorGT,
	ValueSafe:  0,
}

// DefaultStages returns the five stage metrics grouped per user.
//
// Each stage carries only its own filter; the Meeting metric counts
// BOOKED-stage sessions alone, not cumulative earlier stages.
func DefaultStages() []StageMetric {
	stageFilters := map[string][][]Filter{
		model.MetricDial: {},
		model.MetricConnect: {
			{liveDurationGTZero},
		},
		model.MetricPitch: {
			{
				{
					ColumnName: columnStage,
					Table:      tableSessionMetrics,
					Operator:   operatorIN,
					ValueSafe:  []string{stagePitched, stageConversation, stageBooked},
				},
				{
					ColumnName: columnLiveDuration,
					Table:      tableSessionMetrics,
					Operator:   operatorGT,
					ValueSafe:  pitchMinLiveSeconds,
				},
			},
		},
		model.MetricConversation: {
			{
				{
					ColumnName: columnStage,
					Table:      tableSessionMetrics,
					Operator:   operatorIN,
					ValueSafe:  []string{stageConversation, stageBooked},
				},
				{
					ColumnName: columnLiveDuration,
					Table:      tableSessionMetrics,
					Operator:   operatorGT,
					ValueSafe:  conversationMinLiveSeconds,
				},
			},
		},
		model.MetricMeeting: {
			{
				{
					ColumnName: columnStage,
					Table:      tableSessionMetrics,
					Operator:   operatorIN,
					ValueSafe:  []string{stageBooked},
				},
			},
		},
	}

	metrics := make([]StageMetric, 0, len(model.MetricLabels))
	for _, label := range model.MetricLabels {
		metrics = append(metrics, StageMetric{
			Label:   label,
			Selects: []Select{{ColumnType: "CNF", CNF: stageFilters[label]}},
			CNF:     [][]Filter{},
			GroupBy: GroupBy{
				Column: GroupColumn{Table: tableSessionsV2, ColumnName: columnResourceID},
			},
		})
	}
	return metrics
}
