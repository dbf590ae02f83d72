package providers

import (
	"github.com/samber/do/v2"

	"github.com/imyp/QuoteWeave/internal/config"
	"github.com/imyp/QuoteWeave/internal/embedding"
	"github.com/imyp/QuoteWeave/internal/logger"
	"github.com/imyp/QuoteWeave/internal/tagging"
)

// TaggerHandle carries the tag predictor. Predictor is nil when tag
// suggestion is disabled by configuration.
type TaggerHandle struct {
	Predictor tagging.Predictor
}

// ProvideEmbedder provides the embeddings client.
func ProvideEmbedder(i do.Injector) (*embedding.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := []embedding.ClientOption{
		embedding.WithTimeout(cfg.Embedding.Timeout),
	}
	if cfg.Embedding.FallbackModel != "" {
		opts = append(opts, embedding.WithFallbackModel(cfg.Embedding.FallbackModel))
	}
	if cfg.Embedding.APIKey != "" {
		opts = append(opts, embedding.WithAPIKey(cfg.Embedding.APIKey))
	}

	client := embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.Model, log.Logger, opts...)

	log.Info("Embedding client configured",
		"url", cfg.Embedding.BaseURL,
		"model", cfg.Embedding.Model,
		"dimension", client.Dimension(),
	)

	return client, nil
}

// ProvideTagger provides the tag suggestion client when enabled.
func ProvideTagger(i do.Injector) (*TaggerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Tagging.Enabled {
		log.Info("Tag suggestion disabled by configuration")
		return &TaggerHandle{}, nil
	}

	client := tagging.NewClient(cfg.Tagging.BaseURL, cfg.Tagging.Model, log.Logger,
		tagging.WithTimeout(cfg.Tagging.Timeout))

	log.Info("Tag suggestion client configured",
		"url", cfg.Tagging.BaseURL,
		"model", cfg.Tagging.Model,
	)

	return &TaggerHandle{Predictor: client}, nil
}
