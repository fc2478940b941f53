// Package llm wraps a gollem LLM client behind a degraded-mode friendly
// completion API. Pipeline stages must keep working when no model is
// configured or a call fails, so Complete never returns an error: any
// failure yields an empty string and the caller applies its fallback.
package llm

import (
	"context"
	"time"

	"github.com/m-mizutani/gollem"

	"github.com/flatconnect/flatconnect/pkg/utils/logging"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxResponseSize = 4096
)

// Service issues single-shot completions against the configured LLM backend.
type Service struct {
	client          gollem.LLMClient
	timeout         time.Duration
	maxResponseSize int
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxResponseSize overrides the response truncation limit in bytes
func WithMaxResponseSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResponseSize = n
		}
	}
}

// New creates a new completion service. A nil client is allowed and puts the
// service into degraded mode where every call returns an empty string.
func New(client gollem.LLMClient, opts ...Option) *Service {
	s := &Service{
		client:          client,
		timeout:         defaultTimeout,
		maxResponseSize: defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether an LLM backend is configured.
func (s *Service) Available() bool {
	return s != nil && s.client != nil
}

// Complete sends a single prompt and returns the model's text response.
// It returns an empty string on any failure: missing client, session setup
// error, generation error, or an empty model response. Responses longer than
// the configured limit are truncated.
func (s *Service) Complete(ctx context.Context, prompt, systemPrompt string) string {
	if !s.Available() {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := logging.From(ctx)

	var sessionOpts []gollem.SessionOption
	if systemPrompt != "" {
		sessionOpts = append(sessionOpts, gollem.WithSessionSystemPrompt(systemPrompt))
	}

	session, err := s.client.NewSession(ctx, sessionOpts...)
	if err != nil {
		logger.Warn("failed to create LLM session", "error", err)
		return ""
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		logger.Warn("LLM completion failed", "error", err)
		return ""
	}
	if resp == nil || len(resp.Texts) == 0 {
		return ""
	}

	return truncate(resp.Texts[0], s.maxResponseSize)
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
