package domain

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
)

// KeyPrefix namespaces every key this service writes to a shared cache.
const KeyPrefix = "serbsearch:"

// Expander is the shared word expansion contract between layers.
type Expander interface {
	Expand(ctx context.Context, word string) ([]string, error)
}

// BatchExpander expands several words in one call. Results are positional.
type BatchExpander interface {
	BatchExpand(ctx context.Context, words []string) ([][]string, error)
}

// BatchFallback calls Expand once per word, for expanders without a native batch.
func BatchFallback(ctx context.Context, e Expander, words []string) ([][]string, error) {
	out := make([][]string, len(words))
	for i, w := range words {
		vs, err := e.Expand(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("fallback expand [%d]: %w", i, err)
		}
		out[i] = vs
	}
	return out, nil
}

// GeneratorExpander adapts a variant.Generator to the Expander contract.
type GeneratorExpander struct {
	gen *variant.Generator
}

// NewGeneratorExpander wraps gen. A nil gen selects variant.Default.
func NewGeneratorExpander(gen *variant.Generator) *GeneratorExpander {
	if gen == nil {
		gen = variant.Default()
	}
	return &GeneratorExpander{gen: gen}
}

// Expand returns the variants of word. It fails only on a done context.
func (e *GeneratorExpander) Expand(ctx context.Context, word string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	return e.gen.Expand(word).Items(), nil
}

// BatchExpand expands every word in order.
func (e *GeneratorExpander) BatchExpand(ctx context.Context, words []string) ([][]string, error) {
	out := make([][]string, len(words))
	for i, w := range words {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch expand: %w", err)
		}
		out[i] = e.gen.Expand(w).Items()
	}
	return out, nil
}

// ExpandWords dispatches to BatchExpand when e supports it.
func ExpandWords(ctx context.Context, e Expander, words []string) ([][]string, error) {
	if be, ok := e.(BatchExpander); ok {
		return be.BatchExpand(ctx, words) //nolint:wrapcheck // caller wraps
	}
	return BatchFallback(ctx, e, words)
}
