package model

import (
	"errors"
	"fmt"
	"time"
)

// ISODate is the wire format for range bounds.
const ISODate = "2006-01-02"

// ErrReversedRange signals start > end; callers must reject, not swap.
var ErrReversedRange = errors.New("date range start is after end")

// DateRange is an inclusive day-granular [Start, End] interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a validated range from day-granular bounds.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = day(start), day(end)
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrReversedRange,
			start.Format(ISODate), end.Format(ISODate))
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses two ISO dates into a validated range.
func ParseDateRange(startStr, endStr string) (DateRange, error) {
	start, err := time.Parse(ISODate, startStr)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", startStr, err)
	}
	end, err := time.Parse(ISODate, endStr)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", endStr, err)
	}
	return NewDateRange(start, end)
}

// Lookback returns the range covering the last n days up to now,
// inclusive of today.
func Lookback(days int, now time.Time) DateRange {
	if days < 1 {
		days = 1
	}
	end := day(now)
	start := end.AddDate(0, 0, -days)
	return DateRange{Start: start, End: end}
}

// Contains reports whether ts falls inside the range. Bounds are
// inclusive and comparison is at day granularity.
func (r DateRange) Contains(ts time.Time) bool {
	d := day(ts)
	return !d.Before(r.Start) && !d.After(r.End)
}

// StartString returns the ISO form of the start bound.
func (r DateRange) StartString() string { return r.Start.Format(ISODate) }

// EndString returns the ISO form of the end bound.
func (r DateRange) EndString() string { return r.End.Format(ISODate) }

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
