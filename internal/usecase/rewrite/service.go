package rewrite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/domain"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	"github.com/kailas-cloud/serbsearch/internal/logger"
	"github.com/kailas-cloud/serbsearch/internal/metrics"
)

// Result is a rewritten query.
type Result struct {
	// Original is the query as typed, kept for display.
	Original string
	// Expanded is the space-joined union of every word's variants.
	// Quoted phrases appear unchanged.
	Expanded string
	// Terms are the search terms parsed from Expanded.
	Terms []term.Term
}

// Service rewrites search queries into their variant-expanded form.
type Service struct {
	expander  Expander
	stopwords term.Stopwords
}

// New creates a rewrite service.
func New(expander Expander, stopwords term.Stopwords) *Service {
	return &Service{expander: expander, stopwords: stopwords}
}

// Rewrite expands every word of query. Stopwords, lone letters and quoted
// phrases are not expanded.
func (s *Service) Rewrite(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, domain.ErrEmptyQuery
	}

	tokens := term.Split(strings.NewReplacer("\r", "", "\n", "").Replace(query))

	// words to expand, each once, in query order
	var words []string
	slot := make(map[string]int)
	for _, tok := range tokens {
		w, ok := s.expandable(tok)
		if !ok {
			continue
		}
		if _, dup := slot[w]; !dup {
			slot[w] = len(words)
			words = append(words, w)
		}
	}

	if len(words) == 0 {
		return s.result(ctx, query, query), nil
	}

	start := time.Now()
	sets, err := domain.ExpandWords(ctx, s.expander, words)
	if err != nil {
		return Result{}, fmt.Errorf("expand query: %w", err)
	}
	metrics.VariantExpansionDuration.Observe(time.Since(start).Seconds())

	seen := make(map[string]struct{})
	parts := make([]string, 0, len(tokens))
	add := func(v string) {
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			parts = append(parts, v)
		}
	}
	for _, tok := range tokens {
		w, ok := s.expandable(tok)
		if !ok {
			if term.IsPhrase(tok) {
				add(tok)
			}
			continue
		}
		vs := sets[slot[w]]
		metrics.VariantExpansionSize.Observe(float64(len(vs)))
		for _, v := range vs {
			add(v)
		}
	}

	return s.result(ctx, query, strings.Join(parts, " ")), nil
}

// expandable returns the bare word of a token worth expanding.
func (s *Service) expandable(tok string) (string, bool) {
	if term.IsPhrase(tok) {
		return "", false
	}
	terms := term.Filter([]string{tok}, s.stopwords)
	if len(terms) == 0 {
		return "", false
	}
	return terms[0].Text(), true
}

func (s *Service) result(ctx context.Context, original, expanded string) Result {
	terms := term.Parse(expanded, false, s.stopwords)

	logger.FromContext(ctx).Debug("Query rewritten",
		zap.String("original", original),
		zap.String("expanded", expanded),
		zap.Int("terms", len(terms)),
	)

	return Result{Original: original, Expanded: expanded, Terms: terms}
}
