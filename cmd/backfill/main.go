// Package main provides a tool to backfill missing quote embeddings and tags.
//
// It walks every quote with no stored embedding or no tag links, recomputes
// what is missing, and prints a summary. Runs are idempotent and per-item
// failures never abort the pass, so it is safe to re-run after a partial
// outage of the embedding or tagging backend.
//
// Usage:
//
//	go run ./cmd/backfill
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/imyp/QuoteWeave/internal/config"
	"github.com/imyp/QuoteWeave/internal/embedding"
	"github.com/imyp/QuoteWeave/internal/logger"
	"github.com/imyp/QuoteWeave/internal/service"
	"github.com/imyp/QuoteWeave/internal/store/sqlite"
	"github.com/imyp/QuoteWeave/internal/tagging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	s, err := sqlite.Open(cfg.DatabasePath(), embedding.Dimension, appLogger.Logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	var embedOpts []embedding.ClientOption
	embedOpts = append(embedOpts, embedding.WithTimeout(cfg.Embedding.Timeout))
	if cfg.Embedding.FallbackModel != "" {
		embedOpts = append(embedOpts, embedding.WithFallbackModel(cfg.Embedding.FallbackModel))
	}
	if cfg.Embedding.APIKey != "" {
		embedOpts = append(embedOpts, embedding.WithAPIKey(cfg.Embedding.APIKey))
	}
	embedder := embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.Model, appLogger.Logger, embedOpts...)

	var tagger tagging.Predictor
	if cfg.Tagging.Enabled {
		tagger = tagging.NewClient(cfg.Tagging.BaseURL, cfg.Tagging.Model, appLogger.Logger,
			tagging.WithTimeout(cfg.Tagging.Timeout))
	} else {
		fmt.Println("Tag suggestion disabled, backfilling embeddings only")
	}

	backfill := service.NewBackfillService(s, embedder, tagger, appLogger.Logger)

	report, err := backfill.Run(context.Background())
	if report != nil {
		fmt.Printf("Embedded: %d\nTagged:   %d\nSkipped:  %d\nFailed:   %d\n",
			report.Embedded, report.Tagged, report.Skipped, report.Failed)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backfill aborted: %v\n", err)
		os.Exit(1)
	}
}
