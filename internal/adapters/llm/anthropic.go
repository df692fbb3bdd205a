package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/pkg/logger"
	"github.com/salesdeck/pulse/pkg/metrics"
)

const (
	defaultModel     = anthropic.Model("claude-3-5-haiku-20241022")
	defaultMaxTokens = 4096
)

// completer abstracts one prompt/response round with the model. Tests
// substitute a canned implementation.
type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Anthropic implements Client on the Anthropic Messages API. The API
// key comes from the environment (ANTHROPIC_API_KEY) via the SDK.
type Anthropic struct {
	completer completer
	log       logger.Logger
}

// AnthropicOption applies a configuration option to the client.
type AnthropicOption func(*Anthropic, *sdkCompleter)

// WithModel selects the model for both conversation steps.
func WithModel(m string) AnthropicOption {
	return func(_ *Anthropic, c *sdkCompleter) {
		if m != "" {
			c.model = anthropic.Model(m)
		}
	}
}

// WithMaxTokens caps the model's response length.
func WithMaxTokens(n int64) AnthropicOption {
	return func(_ *Anthropic, c *sdkCompleter) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) AnthropicOption {
	return func(a *Anthropic, _ *sdkCompleter) {
		if log != nil {
			a.log = log
		}
	}
}

// WithCompleter replaces the SDK-backed completer. Tests use this to
// avoid network calls.
func WithCompleter(c completer) AnthropicOption {
	return func(a *Anthropic, _ *sdkCompleter) {
		if c != nil {
			a.completer = c
		}
	}
}

// NewAnthropic creates the model client.
func NewAnthropic(opts ...AnthropicOption) *Anthropic {
	sdk := &sdkCompleter{
		client:    anthropic.NewClient(),
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	a := &Anthropic{completer: sdk}
	for _, opt := range opts {
		opt(a, sdk)
	}
	return a
}

// ExtractDateRange implements Client.
func (a *Anthropic) ExtractDateRange(ctx context.Context, query string, now time.Time) (DateRangeIntent, error) {
	text, err := a.completer.Complete(ctx, extractionSystemPrompt, extractionPrompt(query, now))
	if err != nil {
		metrics.RecordUpstreamFailure("llm")
		return DateRangeIntent{}, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	raw := extractJSON(text)
	if raw == "" {
		return DateRangeIntent{}, &ExtractionError{Raw: text, Reason: fmt.Errorf("no JSON object in response")}
	}

	var intent DateRangeIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return DateRangeIntent{}, &ExtractionError{Raw: text, Reason: err}
	}
	if intent.StartDate == "" || intent.EndDate == "" {
		return DateRangeIntent{}, &ExtractionError{Raw: text, Reason: fmt.Errorf("missing startDate or endDate")}
	}

	if a.log != nil {
		a.log.Debug(ctx, "date range extracted",
			logger.String("start", intent.StartDate),
			logger.String("end", intent.EndDate),
			logger.String("intent", intent.Intent))
	}
	return intent, nil
}

// Summarize implements Client.
func (a *Anthropic) Summarize(ctx context.Context, query string, intent DateRangeIntent, rows []model.MetricRow) (string, error) {
	rowsJSON, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode rows: %w", err)
	}

	text, err := a.completer.Complete(ctx, summarySystemPrompt, summaryPrompt(query, intent, string(rowsJSON)))
	if err != nil {
		metrics.RecordUpstreamFailure("llm")
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	return text, nil
}

// sdkCompleter is the real Messages API round trip.
type sdkCompleter struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func (c *sdkCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	metrics.RecordLLMLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", err
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}
