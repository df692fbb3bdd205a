package smoke

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/salesdeck/pulse/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoke_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the smoke check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Pulse Dashboard Smoke Check
===========================

Black-box checker for a running dashboard instance. Exercises the public
endpoints and verifies response invariants.

Usage:
  go run cmd/smoke/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -start string
        Range start date, YYYY-MM-DD (requires -end)
  -end string
        Range end date, YYYY-MM-DD (requires -start)
  -days int
        Lookback window in days when no explicit range (default 7)
  -query string
        Optional natural-language question to round-trip through /api/ask
  -timeout duration
        HTTP request timeout (default 60s)
  -log string
        Log file for check output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Check the last week against a local instance
  go run cmd/smoke/main.go

  # Check an explicit range
  go run cmd/smoke/main.go -start 2025-10-01 -end 2025-10-26

  # Include a model round trip
  go run cmd/smoke/main.go -query "who booked the most meetings last week?"
`)
}
