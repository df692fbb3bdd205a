// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to resolve it.
// - Secrets (API keys) come from the environment, optionally via a .env file.
package config

import (
	"time"
)

// Meeting source modes.
const (
	MeetingSourceFeed     = "feed"
	MeetingSourceWorkbook = "workbook"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// VendorHost is the dialer API hostname, e.g. "api.trellus.ai".
	VendorHost string `koanf:"vendor_host"`

	// VendorAPIKey authenticates against the dialer API.
	VendorAPIKey string `koanf:"vendor_api_key"`

	// VendorTeamID optionally scopes vendor queries to one team.
	VendorTeamID string `koanf:"vendor_team_id"`

	// MeetingSource selects "feed" or "workbook".
	MeetingSource string `koanf:"meeting_source"`

	// MeetingFeedURL is the webhook endpoint returning {"data":[...]} rows.
	MeetingFeedURL string `koanf:"meeting_feed_url"`

	// MeetingWorkbookPath is the local XLSX file with meeting responses.
	MeetingWorkbookPath string `koanf:"meeting_workbook_path"`

	// RosterPath is the YAML file mapping display names to team names.
	RosterPath string `koanf:"roster_path"`

	// ExcludedLeadSource never counts toward meeting totals.
	ExcludedLeadSource string `koanf:"excluded_lead_source"`

	// PrimaryMetric is the metric label rows are sorted by, descending.
	PrimaryMetric string `koanf:"primary_metric"`

	// CacheTTLSeconds bounds the meeting/roster read-through cache.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MeetingFetchTimeoutSeconds bounds the optional meeting-source fetch
	// so a slow sheet cannot block vendor-only results.
	MeetingFetchTimeoutSeconds int `koanf:"meeting_fetch_timeout_seconds"`

	// MaxLookbackDays caps the ?days query parameter.
	MaxLookbackDays int `koanf:"max_lookback_days"`

	// AnthropicModel names the completion model for the ask endpoint.
	AnthropicModel string `koanf:"anthropic_model"`

	// AnthropicMaxTokens caps completion length.
	AnthropicMaxTokens int `koanf:"anthropic_max_tokens"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                   "info",
		Addr:                       ":9080",
		VendorHost:                 "api.trellus.ai",
		MeetingSource:              MeetingSourceFeed,
		ExcludedLeadSource:         "Cold Calls (Clay + Trellus)",
		PrimaryMetric:              "Dial",
		CacheTTLSeconds:            300,
		MeetingFetchTimeoutSeconds: 10,
		MaxLookbackDays:            180,
		AnthropicModel:             "claude-3-5-haiku-20241022",
		AnthropicMaxTokens:         4096,
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// MeetingFetchTimeout returns the meeting fetch bound as a duration.
func (c *Config) MeetingFetchTimeout() time.Duration {
	return time.Duration(c.MeetingFetchTimeoutSeconds) * time.Second
}
