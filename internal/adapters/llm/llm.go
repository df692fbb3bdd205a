// Package llm answers natural-language questions about the dashboard
// data through a two-step model conversation: first extract a date
// range and intent from the question, then summarize the reconciled
// rows for that range.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salesdeck/pulse/internal/domain/model"
)

// Sentinel errors for model failures.
var (
	// ErrCompletion indicates the model request itself failed.
	ErrCompletion = errors.New("model completion failed")
	// ErrExtraction indicates the model answered but no usable JSON
	// could be recovered from its text.
	ErrExtraction = errors.New("failed to extract date range from model response")
)

// ExtractionError carries the model's raw text alongside ErrExtraction
// so the API layer can show callers what the model actually said.
type ExtractionError struct {
	Raw    string
	Reason error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrExtraction, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return ErrExtraction }

// DateRangeIntent is the structured result of the extraction step.
type DateRangeIntent struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Intent    string `json:"intent"`
}

// Client runs the two model steps behind /api/ask.
type Client interface {
	// ExtractDateRange turns a free-text question into a date range and
	// intent, anchored at now.
	ExtractDateRange(ctx context.Context, query string, now time.Time) (DateRangeIntent, error)
	// Summarize produces a conversational answer over the reconciled
	// rows for the extracted range.
	Summarize(ctx context.Context, query string, intent DateRangeIntent, rows []model.MetricRow) (string, error)
}
