package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/embedding"
	"github.com/imyp/QuoteWeave/internal/store"
	"github.com/imyp/QuoteWeave/internal/tagging"
	"github.com/imyp/QuoteWeave/internal/util"
)

// BackfillService re-embeds and re-tags quotes that are missing either.
// Runs are idempotent; a quote drops out of the work list once it has an
// embedding and at least one tag.
type BackfillService struct {
	store    store.Store
	embedder embedding.Provider
	tagger   tagging.Predictor
	logger   *slog.Logger
}

// NewBackfillService creates a new backfill service. tagger may be nil when
// tag prediction is disabled; tag backfill is then skipped entirely.
func NewBackfillService(st store.Store, embedder embedding.Provider, tagger tagging.Predictor, logger *slog.Logger) *BackfillService {
	return &BackfillService{
		store:    st,
		embedder: embedder,
		tagger:   tagger,
		logger:   logger,
	}
}

// BackfillReport summarizes a backfill run.
type BackfillReport struct {
	Embedded int // quotes that received an embedding
	Tagged   int // quotes that received at least one tag
	Skipped  int // quotes with blank text, nothing to embed
	Failed   int // per-item failures, logged and passed over
}

// Run works through all quotes missing an embedding or tags. Per-item
// failures are counted and logged but never abort the run.
func (s *BackfillService) Run(ctx context.Context) (*BackfillReport, error) {
	report := &BackfillReport{}

	if err := s.backfillEmbeddings(ctx, report); err != nil {
		return report, err
	}
	if s.tagger != nil {
		if err := s.backfillTags(ctx, report); err != nil {
			return report, err
		}
	}

	s.logger.Info("backfill complete",
		slog.Int("embedded", report.Embedded),
		slog.Int("tagged", report.Tagged),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *BackfillService) backfillEmbeddings(ctx context.Context, report *BackfillReport) error {
	ids, err := s.store.ListQuotesMissingEmbedding(ctx)
	if err != nil {
		return fmt.Errorf("list quotes missing embedding: %w", err)
	}

	for _, id := range ids {
		quote, err := s.store.GetQuoteByID(ctx, id)
		if err != nil {
			s.itemFailed(report, id, "load quote", err)
			continue
		}

		vec, err := s.embedder.Embed(ctx, quote.Text)
		if err != nil {
			s.itemFailed(report, id, "embed quote", err)
			continue
		}
		if embedding.IsZero(vec) {
			// Blank text produces the zero sentinel; there is nothing to
			// index, so leave the embedding NULL.
			report.Skipped++
			continue
		}

		patch := domain.QuotePatch{Embedding: domain.Set(vec)}
		if err := s.store.UpdateQuote(ctx, id, patch); err != nil {
			s.itemFailed(report, id, "store embedding", err)
			continue
		}
		report.Embedded++
	}
	return nil
}

func (s *BackfillService) backfillTags(ctx context.Context, report *BackfillReport) error {
	ids, err := s.store.ListQuotesMissingTags(ctx)
	if err != nil {
		return fmt.Errorf("list quotes missing tags: %w", err)
	}

	for _, id := range ids {
		quote, err := s.store.GetQuoteByID(ctx, id)
		if err != nil {
			s.itemFailed(report, id, "load quote", err)
			continue
		}

		authorName := ""
		if author, err := s.store.GetAuthorByID(ctx, quote.AuthorID); err == nil {
			authorName = author.Name
		}

		predicted, err := s.tagger.PredictTags(ctx, quote.Text, authorName)
		if err != nil {
			s.itemFailed(report, id, "predict tags", err)
			continue
		}

		linked := 0
		for _, raw := range predicted {
			name := util.NormalizeTagName(raw)
			if name == "" {
				continue
			}
			tag, err := s.store.GetOrCreateTag(ctx, name)
			if err != nil {
				s.logger.Warn("backfill failed to resolve tag, skipping",
					slog.Int64("quote_id", id),
					slog.String("tag", name),
					slog.String("error", err.Error()))
				continue
			}
			if err := s.store.LinkQuoteTag(ctx, id, tag.ID); err != nil {
				s.logger.Warn("backfill failed to link tag, skipping",
					slog.Int64("quote_id", id),
					slog.String("tag", name),
					slog.String("error", err.Error()))
				continue
			}
			linked++
		}
		if linked > 0 {
			report.Tagged++
		}
	}
	return nil
}

func (s *BackfillService) itemFailed(report *BackfillReport, quoteID int64, stage string, err error) {
	report.Failed++
	s.logger.Warn("backfill item failed",
		slog.Int64("quote_id", quoteID),
		slog.String("stage", stage),
		slog.String("error", err.Error()))
}
