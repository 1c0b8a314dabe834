package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
)

// NoContextFound is returned when retrieval yields nothing or fails.
// Retrieval is best-effort relative to the upload flow, so this sentinel is
// the only "failure" the caller ever sees.
const NoContextFound = "No specific context found."

// SourceSearcher is the slice of the source index the context builder needs.
type SourceSearcher interface {
	NearestNeighbors(ctx context.Context, queryVector []float32, k int) ([]models.AcademicSource, error)
}

type ContextBuilderConfig struct {
	TopK             int
	QueryPrefixChars int
	ExcerptChars     int
}

type ContextBuilder struct {
	embedder Embedder
	sources  SourceSearcher
	config   ContextBuilderConfig
	logger   zerolog.Logger
}

func NewContextBuilder(embedder Embedder, sources SourceSearcher, config ContextBuilderConfig, logger zerolog.Logger) *ContextBuilder {
	return &ContextBuilder{
		embedder: embedder,
		sources:  sources,
		config:   config,
		logger:   logger,
	}
}

// BuildContext renders a bounded context string from the sources nearest to
// the uploaded text. Only a prefix of the text is embedded; a representative
// sample is enough for retrieval and it bounds provider cost.
func (b *ContextBuilder) BuildContext(ctx context.Context, uploadedText string) string {
	sample := uploadedText
	if len(sample) > b.config.QueryPrefixChars {
		sample = sample[:b.config.QueryPrefixChars]
	}

	embedding := b.embedder.Embed(ctx, sample)

	sources, err := b.sources.NearestNeighbors(ctx, embedding, b.config.TopK)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Source retrieval failed, using fallback context")
		return NoContextFound
	}

	if len(sources) == 0 {
		return NoContextFound
	}

	lines := make([]string, 0, len(sources))
	for _, source := range sources {
		excerpt := source.FullText
		if len(excerpt) > b.config.ExcerptChars {
			excerpt = excerpt[:b.config.ExcerptChars]
		}
		lines = append(lines, fmt.Sprintf("Source: %s - Content: %s", source.Title, excerpt))
	}

	return strings.Join(lines, "\n")
}
