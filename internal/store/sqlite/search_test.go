package sqlite

import (
	"context"
	"testing"
)

func TestNearestQuotes_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Unit vectors at increasing angles from the query direction.
	exact := mustCreateQuote(t, s, "Ada", "exact match", true, []float32{1, 0, 0, 0})
	near := mustCreateQuote(t, s, "Ada", "close", true, []float32{1, 1, 0, 0})
	far := mustCreateQuote(t, s, "Ada", "far", true, []float32{0, 1, 0, 0})

	results, err := s.NearestQuotes(ctx, []float32{1, 0, 0, 0}, 10, 0, true)
	if err != nil {
		t.Fatalf("nearest quotes: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].QuoteID != exact.ID || results[1].QuoteID != near.ID || results[2].QuoteID != far.ID {
		t.Errorf("unexpected order: %+v", results)
	}

	// Distances are non-decreasing.
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Errorf("distance decreased at %d: %f < %f", i, results[i].Distance, results[i-1].Distance)
		}
	}
}

func TestNearestQuotes_PublicFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateQuote(t, s, "Ada", "public", true, []float32{1, 0, 0, 0})
	privateQ := mustCreateQuote(t, s, "Ada", "private", false, []float32{1, 0, 0, 0})

	results, err := s.NearestQuotes(ctx, []float32{1, 0, 0, 0}, 10, 0, true)
	if err != nil {
		t.Fatalf("nearest quotes: %v", err)
	}
	for _, r := range results {
		if r.QuoteID == privateQ.ID {
			t.Error("private quote leaked into public-only search")
		}
	}

	// Without the filter the private quote appears.
	results, err = s.NearestQuotes(ctx, []float32{1, 0, 0, 0}, 10, 0, false)
	if err != nil {
		t.Fatalf("unfiltered search: %v", err)
	}
	found := false
	for _, r := range results {
		if r.QuoteID == privateQ.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected private quote in unfiltered search")
	}
}

func TestNearestQuotes_ExcludesNullEmbeddings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	embedded := mustCreateQuote(t, s, "Ada", "embedded", true, []float32{1, 0, 0, 0})
	unembedded := mustCreateQuote(t, s, "Ada", "not embedded", true, nil)

	results, err := s.NearestQuotes(ctx, []float32{1, 0, 0, 0}, 10, 0, true)
	if err != nil {
		t.Fatalf("nearest quotes: %v", err)
	}
	if len(results) != 1 || results[0].QuoteID != embedded.ID {
		t.Errorf("expected only embedded quote, got %+v", results)
	}
	for _, r := range results {
		if r.QuoteID == unembedded.ID {
			t.Error("quote without embedding appeared in results")
		}
	}
}

func TestNearestQuotes_TieBreakByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Identical vectors: distance ties, id ascending breaks it.
	q1 := mustCreateQuote(t, s, "Ada", "twin one", true, []float32{0, 1, 0, 0})
	q2 := mustCreateQuote(t, s, "Ada", "twin two", true, []float32{0, 1, 0, 0})

	results, err := s.NearestQuotes(ctx, []float32{0, 1, 0, 0}, 10, 0, true)
	if err != nil {
		t.Fatalf("nearest quotes: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].QuoteID != q1.ID || results[1].QuoteID != q2.ID {
		t.Errorf("expected tie-break by id: %+v", results)
	}
}

func TestNearestQuotes_LimitAndOffset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	vectors := [][]float32{
		{1, 0, 0, 0},
		{1, 0.5, 0, 0},
		{1, 1, 0, 0},
		{0, 1, 0, 0},
	}
	for _, vec := range vectors {
		mustCreateQuote(t, s, "Ada", "quote", true, vec)
	}

	all, err := s.NearestQuotes(ctx, []float32{1, 0, 0, 0}, 4, 0, true)
	if err != nil {
		t.Fatalf("full window: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4, got %d", len(all))
	}

	// A shifted window matches the corresponding slice of the full result.
	window, err := s.NearestQuotes(ctx, []float32{1, 0, 0, 0}, 2, 1, true)
	if err != nil {
		t.Fatalf("shifted window: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("expected 2, got %d", len(window))
	}
	if window[0].QuoteID != all[1].QuoteID || window[1].QuoteID != all[2].QuoteID {
		t.Errorf("offset window mismatch: %+v vs %+v", window, all[1:3])
	}
}

func TestNearestQuotes_EmptyAndInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// k <= 0 short-circuits to empty.
	results, err := s.NearestQuotes(ctx, []float32{1, 0, 0, 0}, 0, 0, true)
	if err != nil {
		t.Fatalf("zero k: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty, got %d", len(results))
	}

	// Wrong dimension is rejected before touching the database.
	if _, err := s.NearestQuotes(ctx, []float32{1, 0}, 10, 0, true); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestVectorRoundtrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75, 0}
	decoded, err := decodeVector(encodeVector(vec))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(vec) {
		t.Fatalf("length mismatch: %d vs %d", len(decoded), len(vec))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("index %d: expected %f, got %f", i, vec[i], decoded[i])
		}
	}
}

func TestDecodeVector_BadLength(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for blob length not a multiple of 4")
	}
}
