// Package main provides a tool to seed the database with demo quotes.
//
// It reads a CSV file where each row is: quote text, author name, optional
// collection name, and a comma-separated list of categories. Rows with a
// blank author are attributed to "Unknown". Seeding is skipped when the
// database already contains quotes, so it is safe to run on every deploy.
//
// Usage:
//
//	go run ./cmd/seed --file quotes.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/imyp/QuoteWeave/internal/config"
	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/embedding"
	"github.com/imyp/QuoteWeave/internal/store/sqlite"
	"github.com/imyp/QuoteWeave/internal/util"
)

var csvFile = flag.String("file", "quotes.csv", "CSV file with quote, author, collection, categories columns")

// row is one parsed CSV record.
type row struct {
	text       string
	author     string
	collection string
	categories []string
}

func main() {
	// LoadConfig registers its own flags and calls flag.Parse, picking up
	// --file along with the shared config flags.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	fmt.Printf("Opening database at: %s\n", cfg.DatabasePath())

	s, err := sqlite.Open(cfg.DatabasePath(), embedding.Dimension, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	// Never re-seed a populated database
	count, err := s.CountQuotes(ctx)
	if err != nil {
		log.Fatalf("Failed to count quotes: %v", err)
	}
	if count > 0 {
		fmt.Printf("Database already contains %d quotes, nothing to do\n", count)
		return
	}

	rows, err := readRows(*csvFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *csvFile, err)
	}
	if len(rows) == 0 {
		log.Fatalf("No rows found in %s", *csvFile)
	}

	fmt.Printf("Read %d quotes from %s\n", len(rows), *csvFile)

	var embedOpts []embedding.ClientOption
	embedOpts = append(embedOpts, embedding.WithTimeout(cfg.Embedding.Timeout))
	if cfg.Embedding.FallbackModel != "" {
		embedOpts = append(embedOpts, embedding.WithFallbackModel(cfg.Embedding.FallbackModel))
	}
	if cfg.Embedding.APIKey != "" {
		embedOpts = append(embedOpts, embedding.WithAPIKey(cfg.Embedding.APIKey))
	}
	embedder := embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.Model, logger, embedOpts...)

	// Embed everything up front. A failure here is not fatal: quotes are
	// stored without vectors and cmd/backfill picks them up later.
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.text
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		log.Printf("Embedding failed, seeding without vectors (run cmd/backfill later): %v", err)
		vectors = make([][]float32, len(rows))
	}

	// Collections are created lazily, keyed by owner and name
	type collKey struct {
		authorID int64
		name     string
	}
	collections := make(map[collKey]*domain.Collection)

	now := time.Now().UTC()
	created := 0

	for i, r := range rows {
		author, err := s.GetOrCreateAuthor(ctx, r.author)
		if err != nil {
			log.Printf("Failed to resolve author %q: %v", r.author, err)
			continue
		}

		quote := &domain.Quote{
			AuthorID:  author.ID,
			Text:      r.text,
			IsPublic:  true,
			Embedding: vectors[i],
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateQuote(ctx, quote); err != nil {
			log.Printf("Failed to create quote %q: %v", truncate(r.text, 40), err)
			continue
		}
		created++

		for _, category := range r.categories {
			name := util.NormalizeTagName(category)
			if name == "" {
				continue
			}
			tag, err := s.GetOrCreateTag(ctx, name)
			if err != nil {
				log.Printf("Failed to resolve tag %q: %v", name, err)
				continue
			}
			if err := s.LinkQuoteTag(ctx, quote.ID, tag.ID); err != nil {
				log.Printf("Failed to link tag %q to quote %d: %v", name, quote.ID, err)
			}
		}

		if r.collection != "" {
			key := collKey{authorID: author.ID, name: r.collection}
			coll, ok := collections[key]
			if !ok {
				coll = &domain.Collection{
					AuthorID:  author.ID,
					Name:      r.collection,
					IsPublic:  true,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := s.CreateCollection(ctx, coll); err != nil {
					log.Printf("Failed to create collection %q: %v", r.collection, err)
					continue
				}
				collections[key] = coll
			}
			if err := s.AddQuoteToCollection(ctx, coll.ID, quote.ID); err != nil {
				log.Printf("Failed to add quote %d to collection %q: %v", quote.ID, r.collection, err)
			}
		}
	}

	fmt.Printf("\nSeeding complete: %d quotes, %d collections\n", created, len(collections))
}

// readRows parses the seed CSV. Columns are text, author, collection and
// categories; the last two are optional. The categories column holds a
// comma-separated list, so it must be quoted in the file.
func readRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}

		r := row{text: strings.TrimSpace(record[0])}
		if r.text == "" {
			continue
		}
		if len(record) > 1 {
			r.author = strings.TrimSpace(record[1])
		}
		if r.author == "" {
			r.author = "Unknown"
		}
		if len(record) > 2 {
			r.collection = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			for _, c := range strings.Split(record[3], ",") {
				if c = strings.TrimSpace(c); c != "" {
					r.categories = append(r.categories, c)
				}
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// truncate shortens s for log lines.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
