package cmd

import (
	"context"
	"fmt"

	"github.com/crimson-sun/spendsort/internal/connector"
	"github.com/crimson-sun/spendsort/internal/engine"
	"github.com/crimson-sun/spendsort/internal/engine/confidence"
	"github.com/crimson-sun/spendsort/internal/engine/embedder"
	"github.com/crimson-sun/spendsort/internal/engine/exemplars"
	"github.com/crimson-sun/spendsort/internal/output"
	csvout "github.com/crimson-sun/spendsort/internal/output/csv"
	"github.com/crimson-sun/spendsort/internal/output/file"
	"github.com/crimson-sun/spendsort/internal/output/multi"
	"github.com/crimson-sun/spendsort/internal/output/stdout"
	"github.com/crimson-sun/spendsort/internal/output/webhook"
)

// buildEmbedder constructs the configured embedding provider, wrapping
// it in the SQLite cache when a cache path is set.
func buildEmbedder() (embedder.Embedder, error) {
	var (
		emb      embedder.Embedder
		modelKey string
		err      error
	)
	switch cfg.Embedder {
	case "voyage":
		emb, err = embedder.NewVoyage(cfg.VoyageAPIKey)
		modelKey = embedder.DefaultVoyageModel
	default:
		if cfg.ONNXLibPath != "" {
			embedder.SetRuntimeLibrary(cfg.ONNXLibPath)
		}
		emb, err = embedder.NewONNX(cfg.ModelPath, cfg.VocabPath)
		modelKey = cfg.ModelPath
	}
	if err != nil {
		return nil, err
	}

	if cfg.CachePath != "" {
		cached, err := embedder.NewCached(emb, cfg.CachePath, modelKey)
		if err != nil {
			emb.Close()
			return nil, err
		}
		return cached, nil
	}
	return emb, nil
}

// buildTable loads the exemplar table from the configured CSV, falling
// back to the built-in categories.
func buildTable() (exemplars.Table, error) {
	if cfg.ExemplarsPath == "" {
		return exemplars.DefaultTable(), nil
	}
	return exemplars.LoadCSV(cfg.ExemplarsPath)
}

// buildEngine wires embedder, exemplar table and thresholds into a
// ready-to-use engine.
func buildEngine(ctx context.Context) (*engine.Engine, error) {
	emb, err := buildEmbedder()
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	table, err := buildTable()
	if err != nil {
		emb.Close()
		return nil, fmt.Errorf("loading exemplars: %w", err)
	}

	strategy, err := engine.ParseStrategy(cfg.Strategy)
	if err != nil {
		emb.Close()
		return nil, err
	}

	buckets, err := confidence.NewBucketer(cfg.HighThreshold, cfg.LowThreshold)
	if err != nil {
		emb.Close()
		return nil, err
	}

	eng, err := engine.New(ctx, emb, table, strategy, buckets)
	if err != nil {
		emb.Close()
		return nil, fmt.Errorf("building engine: %w", err)
	}
	return eng, nil
}

// buildOutput constructs the configured prediction destination. When a
// webhook URL is set, low-confidence predictions are additionally sent
// there for review.
func buildOutput() (output.Output, error) {
	verbosity := output.Full
	if cfg.Verbosity == "minimal" {
		verbosity = output.Minimal
	}

	var primary output.Output
	switch cfg.Output {
	case "file":
		out, err := file.New(cfg.OutputPath, verbosity)
		if err != nil {
			return nil, err
		}
		primary = out
	case "csv":
		out, err := csvout.New(cfg.OutputPath)
		if err != nil {
			return nil, err
		}
		primary = out
	default:
		primary = stdout.New(verbosity, false)
	}

	if cfg.WebhookURL == "" {
		return primary, nil
	}
	review := webhook.New(cfg.WebhookURL, webhook.WithLowConfidenceOnly())
	return multi.New(primary, review), nil
}

func fetchParamsFromConfig() connector.FetchParams {
	return connector.FetchParams{GroupID: cfg.GroupID}
}

// buildConnector opens the configured expense source.
func buildConnector() (connector.Connector, error) {
	return connector.Open(connector.Config{
		Provider:     cfg.Connector,
		ClientID:     cfg.SplitwiseID,
		ClientSecret: cfg.SplitwiseSecret,
		TokenFile:    cfg.TokenFile,
		Endpoint:     cfg.Endpoint,
	})
}
