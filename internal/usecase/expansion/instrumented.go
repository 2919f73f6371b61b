package expansion

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/domain"
)

// DefaultMaxBatchSize is the largest batch passed to the inner expander in one call.
const DefaultMaxBatchSize = 256

// InstrumentedExpander wraps an Expander with logging and batch chunking.
// Expansion size and duration metrics are recorded by the rewrite service.
type InstrumentedExpander struct {
	inner        domain.Expander
	maxBatchSize int
	logger       *zap.Logger
}

// NewInstrumentedExpander wraps an expander with observability.
func NewInstrumentedExpander(inner domain.Expander, logger *zap.Logger) *InstrumentedExpander {
	return &InstrumentedExpander{
		inner:        inner,
		maxBatchSize: DefaultMaxBatchSize,
		logger:       logger,
	}
}

// WithMaxBatchSize overrides the chunk size. Non-positive values are ignored.
func (p *InstrumentedExpander) WithMaxBatchSize(n int) *InstrumentedExpander {
	if n > 0 {
		p.maxBatchSize = n
	}
	return p
}

// Expand delegates to the inner expander and logs the outcome.
func (p *InstrumentedExpander) Expand(ctx context.Context, word string) ([]string, error) {
	start := time.Now()

	vs, err := p.inner.Expand(ctx, word)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Variant expansion failed",
			zap.String("word", word),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("expand: %w", err)
	}

	p.logger.Debug("Variant expansion completed",
		zap.String("word", word),
		zap.Duration("duration", duration),
		zap.Int("variants", len(vs)),
	)

	return vs, nil
}

// BatchExpand splits words into chunks and delegates each chunk.
func (p *InstrumentedExpander) BatchExpand(ctx context.Context, words []string) ([][]string, error) {
	if len(words) == 0 {
		return nil, nil
	}

	start := time.Now()
	out := make([][]string, 0, len(words))

	for offset := 0; offset < len(words); offset += p.maxBatchSize {
		end := min(offset+p.maxBatchSize, len(words))
		chunk := words[offset:end]

		sets, err := domain.ExpandWords(ctx, p.inner, chunk)
		if err != nil {
			p.logger.Error("Batch variant expansion failed",
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("batch expand: %w", err)
		}
		if len(sets) != len(chunk) {
			return nil, fmt.Errorf("batch expand: got %d sets for %d words", len(sets), len(chunk))
		}
		out = append(out, sets...)
	}

	p.logger.Debug("Batch variant expansion completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("batch_size", len(words)),
	)

	return out, nil
}
