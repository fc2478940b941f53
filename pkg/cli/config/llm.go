package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/flatconnect/flatconnect/pkg/service/llm"
	"github.com/flatconnect/flatconnect/pkg/utils/logging"
)

// LLM holds configuration for the Gemini-backed completion service
type LLM struct {
	geminiProject  string
	geminiLocation string
	timeout        time.Duration
	maxRespSize    int
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("FLATCONNECT_GEMINI_PROJECT"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("FLATCONNECT_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.DurationFlag{
			Name:        "llm-timeout",
			Usage:       "Per-call timeout for LLM completions",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("FLATCONNECT_LLM_TIMEOUT"),
			Destination: &l.timeout,
		},
		&cli.IntFlag{
			Name:        "llm-max-response-size",
			Usage:       "Maximum LLM response size in bytes (longer responses are truncated)",
			Value:       4096,
			Sources:     cli.EnvVars("FLATCONNECT_LLM_MAX_RESPONSE_SIZE"),
			Destination: &l.maxRespSize,
		},
	}
}

// LogValue implements slog.LogValuer to log the configuration safely
func (l *LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("gemini_project", l.geminiProject),
		slog.String("gemini_location", l.geminiLocation),
		slog.Duration("timeout", l.timeout),
		slog.Int("max_response_size", l.maxRespSize),
	)
}

// Configure creates the completion service from the configured flags.
// When no Gemini project is set the service runs in degraded mode and the
// pipeline stages fall back to their deterministic defaults.
func (l *LLM) Configure(ctx context.Context) (*llm.Service, error) {
	opts := []llm.Option{
		llm.WithTimeout(l.timeout),
		llm.WithMaxResponseSize(l.maxRespSize),
	}

	if l.geminiProject == "" {
		logging.Default().Warn("Gemini project not configured, pipeline AI features are disabled")
		return llm.New(nil, opts...), nil
	}

	client, err := gemini.New(ctx, l.geminiProject, l.geminiLocation)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	logging.Default().Info("Gemini LLM enabled",
		"project_id", l.geminiProject,
		"location", l.geminiLocation,
	)
	return llm.New(client, opts...), nil
}
