package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/atestado-tools/atestado-reader/internal/common"
	"github.com/atestado-tools/atestado-reader/internal/extract"
	"github.com/atestado-tools/atestado-reader/internal/model"
	"github.com/atestado-tools/atestado-reader/internal/model/openai"
	"github.com/atestado-tools/atestado-reader/internal/patterns"
	"github.com/atestado-tools/atestado-reader/internal/training"
	"github.com/atestado-tools/atestado-reader/internal/validate"
)

// buildPipeline wires the extraction pipeline from config. When the model
// tier is disabled or cannot be built (no API key), the Noop extractor is
// used and extraction degrades to heuristic/regex tiers.
func buildPipeline(c *common.Config, log *slog.Logger) *extract.Pipeline {
	var m model.Extractor = model.Noop{}
	if c.UseAI {
		client, ok := openai.NewClient(openai.Config{
			APIKey:      c.Model.APIKey,
			BaseURL:     c.Model.BaseURL,
			Model:       c.Model.Model,
			Temperature: c.Model.Temperature,
			Timeout:     c.Model.Timeout,
		}, log)
		if ok {
			m = client
		} else {
			log.Warn("model tier requested but no API key found, continuing without it")
		}
	}

	v := &validate.Validator{
		MinYear: c.Extraction.MinYear,
		MaxYear: c.Extraction.MaxYear,
	}
	pcfg := extract.Config{
		MinConfidence: c.Extraction.MinConfidence,
		ModelTimeout:  c.Model.Timeout,
	}
	return extract.NewPipeline(log, pcfg, patterns.Default(), m, v)
}

// buildStore opens the corrections history backend selected by config.
func buildStore(ctx context.Context, c *common.Config, log *slog.Logger) (training.Store, error) {
	switch c.History.Backend {
	case "sqlite":
		return training.NewSQLiteStore(ctx, c.History.Path, log)
	case "postgres":
		return training.NewPostgresStore(ctx, training.PostgresConfig{
			DSN:             c.History.DSN,
			MaxConns:        c.History.MaxConns,
			MinConns:        c.History.MinConns,
			MaxConnLifetime: c.History.MaxConnLifetime,
			MaxConnIdleTime: c.History.MaxConnIdleTime,
			DialTimeout:     c.History.DialTimeout,
		}, log)
	default:
		return training.NewFileStore(c.History.Path, log)
	}
}

// commandContext bounds CLI operations so a wedged backend cannot hang the
// terminal forever.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}
