package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/salesdeck/pulse/internal/smoke"
	"github.com/salesdeck/pulse/pkg/logger"
)

// Default configuration constants.
const (
	defaultDays        = 7
	defaultTimeout     = 60 * time.Second
	defaultCheckBudget = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		startDate = flag.String("start", "", "Range start date, YYYY-MM-DD (requires -end)")
		endDate   = flag.String("end", "", "Range end date, YYYY-MM-DD (requires -start)")
		days      = flag.Int("days", defaultDays, "Lookback window in days when no explicit range")
		query     = flag.String("query", "", "Optional natural-language question to round-trip")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file for check output (default: smoke_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckBudget)
	defer cancel()

	config := &smoke.Config{
		BaseURL:   *baseURL,
		StartDate: *startDate,
		EndDate:   *endDate,
		Days:      *days,
		Query:     *query,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	if err := smoke.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "smoke check failed", logger.Error(err))
		os.Exit(1)
	}
}
