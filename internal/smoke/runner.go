package smoke

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	service "github.com/salesdeck/pulse/internal/app"
	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/pkg/logger"
)

// Run executes the complete smoke check.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting dashboard smoke check",
		logger.String("baseURL", config.BaseURL),
		logger.String("startDate", config.StartDate),
		logger.String("endDate", config.EndDate),
		logger.Int("days", config.Days),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.Timeout)

	// Step 1: service must be up.
	if err := checkHealth(ctx, client, config, stats); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	// Step 2: stats endpoint must answer.
	if err := checkStats(ctx, client, config, stats); err != nil {
		return fmt.Errorf("stats check failed: %w", err)
	}

	// Step 3: account listing.
	if err := checkUsers(ctx, client, config, stats); err != nil {
		return fmt.Errorf("users check failed: %w", err)
	}

	// Step 4: dashboard payload and its invariants.
	if err := checkMetricsData(ctx, client, config, stats); err != nil {
		return fmt.Errorf("metrics-data check failed: %w", err)
	}

	// Step 5: optional natural-language round trip.
	if config.Query != "" {
		if err := checkAsk(ctx, client, config, stats); err != nil {
			return fmt.Errorf("ask check failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d of %d checks failed", stats.ChecksFailed, stats.ChecksRun)
	}
	log.Info(ctx, "smoke check completed successfully")
	return nil
}

func checkHealth(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	stats.ChecksRun++
	status, err := client.GetJSON(ctx, config.BaseURL+"/healthz", nil)
	if err != nil || status != http.StatusOK {
		stats.ChecksFailed++
		if err == nil {
			err = fmt.Errorf("HTTP %d", status)
		}
		return err
	}
	logger.Get().Info(ctx, "health check passed")
	return nil
}

func checkStats(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	stats.ChecksRun++
	var body map[string]any
	status, err := client.GetJSON(ctx, config.BaseURL+"/stats", &body)
	if err != nil || status != http.StatusOK {
		stats.ChecksFailed++
		if err == nil {
			err = fmt.Errorf("HTTP %d", status)
		}
		return err
	}
	if started, ok := body["started"].(bool); !ok || !started {
		stats.ChecksFailed++
		return fmt.Errorf("service reports started=%v", body["started"])
	}
	logger.Get().Info(ctx, "stats check passed")
	return nil
}

func checkUsers(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	stats.ChecksRun++
	var users service.UsersData
	status, err := client.GetJSON(ctx, config.BaseURL+"/api/users", &users)
	if err != nil {
		stats.ChecksFailed++
		return err
	}
	if status != http.StatusOK {
		stats.ChecksFailed++
		return fmt.Errorf("HTTP %d", status)
	}

	stats.UsersSeen = len(users.Users)
	if problems := verifyUsers(&users); len(problems) > 0 {
		stats.ChecksFailed++
		return reportProblems(ctx, "users", problems)
	}
	logger.Get().Info(ctx, "users check passed", logger.Int("users", len(users.Users)))
	return nil
}

func checkMetricsData(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	stats.ChecksRun++

	params := url.Values{}
	if config.StartDate != "" && config.EndDate != "" {
		params.Set("startDate", config.StartDate)
		params.Set("endDate", config.EndDate)
	} else if config.Days > 0 {
		params.Set("days", strconv.Itoa(config.Days))
	}

	var data service.MetricsData
	status, err := client.GetJSON(ctx, config.BaseURL+"/api/metrics-data?"+params.Encode(), &data)
	if err != nil {
		stats.ChecksFailed++
		return err
	}
	if status != http.StatusOK {
		stats.ChecksFailed++
		return fmt.Errorf("HTTP %d", status)
	}

	stats.RowsSeen = len(data.Rows)
	if data.Degraded {
		logger.Get().Warn(ctx, "service is degraded; meeting data missing from rows")
	}

	if problems := verifyMetricsData(&data, model.MetricDial); len(problems) > 0 {
		stats.ChecksFailed++
		return reportProblems(ctx, "metrics-data", problems)
	}
	logger.Get().Info(ctx, "metrics-data check passed",
		logger.Int("rows", len(data.Rows)),
		logger.String("start", data.DateRange.Start),
		logger.String("end", data.DateRange.End))
	return nil
}

func checkAsk(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	stats.ChecksRun++

	var answer service.Answer
	status, err := client.PostJSON(ctx, config.BaseURL+"/api/ask",
		map[string]string{"query": config.Query}, &answer)
	if err != nil {
		stats.ChecksFailed++
		return err
	}
	if status != http.StatusOK {
		stats.ChecksFailed++
		return fmt.Errorf("HTTP %d", status)
	}
	if answer.Answer == "" {
		stats.ChecksFailed++
		return fmt.Errorf("empty answer for query %q", config.Query)
	}
	logger.Get().Info(ctx, "ask check passed",
		logger.String("intent", answer.Intent),
		logger.Int("answerLen", len(answer.Answer)))
	return nil
}

func reportProblems(ctx context.Context, check string, problems []error) error {
	log := logger.Get()
	for _, p := range problems {
		log.Warn(ctx, "invariant violation", logger.String("check", check), logger.Error(p))
	}
	return fmt.Errorf("%s: %d invariant violations (first: %w)", check, len(problems), problems[0])
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "smoke check finished",
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.Int("rows", stats.RowsSeen),
		logger.Int("users", stats.UsersSeen),
		logger.Duration("duration", stats.Duration))
}
