// Package embedding converts free text into fixed-length vectors for
// similarity search.
package embedding

import "context"

// Dimension is the embedding vector length used across the application.
// Fixed for the process lifetime; the store rejects vectors of any other size.
const Dimension = 384

// Provider converts text into fixed-length float32 vectors.
//
// Blank or whitespace-only input yields the all-zero sentinel vector rather
// than an error; callers must check IsZero before indexing such a vector.
type Provider interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input, in input order. Blank inputs
	// get the zero sentinel at their original position; any transport or
	// model failure fails the whole batch.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the vector length this provider produces.
	Dimension() int
}

// ZeroVector returns a fresh all-zero sentinel vector of length d.
func ZeroVector(d int) []float32 {
	return make([]float32, d)
}

// IsZero reports whether vec is the all-zero sentinel.
func IsZero(vec []float32) bool {
	for _, f := range vec {
		if f != 0 {
			return false
		}
	}
	return true
}
