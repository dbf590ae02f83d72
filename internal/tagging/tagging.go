// Package tagging predicts candidate tag names for quotes using a text
// generation model served over an Ollama-style HTTP API.
package tagging

import "context"

// Predictor generates candidate tag names for a quote.
type Predictor interface {
	// PredictTags returns candidate tag names for the given quote text and
	// author name, comma-split, trimmed, and deduplicated in order of first
	// appearance. The result may be empty.
	PredictTags(ctx context.Context, quoteText, authorName string) ([]string, error)
}
