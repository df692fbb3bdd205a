package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PULSE_CONFIG is set
//  3. env (prefix PULSE_)
//
// A local .env file is folded into the environment first so API keys can
// live next to the binary during development.
func Load(_ context.Context) (*Config, error) {
	// Missing .env is fine; only a malformed one is worth surfacing.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		if _, statErr := os.Stat(".env"); statErr == nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PULSE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PULSE_ADDR, PULSE_VENDOR_API_KEY, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("PULSE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pulse_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.VendorHost == "":
		return fmt.Errorf("%w: vendor_host must not be empty", ErrInvalidConfig)
	case c.MeetingSource != MeetingSourceFeed && c.MeetingSource != MeetingSourceWorkbook:
		return fmt.Errorf("%w: meeting_source must be %q or %q", ErrInvalidConfig, MeetingSourceFeed, MeetingSourceWorkbook)
	case c.MeetingSource == MeetingSourceFeed && c.MeetingFeedURL == "":
		return fmt.Errorf("%w: meeting_feed_url required for feed source", ErrInvalidConfig)
	case c.MeetingSource == MeetingSourceWorkbook && c.MeetingWorkbookPath == "":
		return fmt.Errorf("%w: meeting_workbook_path required for workbook source", ErrInvalidConfig)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case c.MaxLookbackDays <= 0:
		return fmt.Errorf("%w: max_lookback_days must be positive", ErrInvalidConfig)
	}
	return nil
}
