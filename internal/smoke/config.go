// Package smoke black-box checks a running dashboard instance: it
// exercises every public endpoint and verifies the invariants the API
// promises (row ordering, meeting totals, range echo).
package smoke

import "time"

// Config holds configuration for the smoke check.
type Config struct {
	BaseURL   string        // Base URL of the service
	StartDate string        // Explicit range start (YYYY-MM-DD), optional
	EndDate   string        // Explicit range end (YYYY-MM-DD), optional
	Days      int           // Lookback window when no explicit range
	Query     string        // Optional natural-language question to send
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for check output
	Verbose   bool          // Enable verbose logging
}

// Stats holds smoke check statistics.
type Stats struct {
	ChecksRun    int
	ChecksFailed int
	RowsSeen     int
	UsersSeen    int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
