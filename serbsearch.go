// Package serbsearch finds Serbian text regardless of script, diacritics and
// grammatical case.
//
// Expand lists the forms one word may take; Rewrite turns a search query
// into the union of its words' forms. Client adds a SQLite post store that
// is searched with rewritten queries.
package serbsearch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/serbsearch/internal/domain"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
	"github.com/kailas-cloud/serbsearch/internal/usecase/rewrite"
)

// ErrEmptyQuery is returned by Rewrite for a blank query.
var ErrEmptyQuery = domain.ErrEmptyQuery

// ErrInvalidQuery is returned by Client.Search for bad paging parameters.
var ErrInvalidQuery = domain.ErrInvalidQuery

// ErrPostNotFound is returned by Client.GetPost for a missing post.
var ErrPostNotFound = domain.ErrPostNotFound

var defaultRewriter = rewrite.New(domain.NewGeneratorExpander(nil), term.DefaultStopwords())

// Expand returns the variants of word: the word itself first, then its other
// script, diacritic and case forms. An empty word yields an empty slice.
func Expand(word string) []string {
	return variant.Expand(word)
}

// Rewrite expands every word of query with the default tables.
func Rewrite(ctx context.Context, query string) (Rewritten, error) {
	res, err := defaultRewriter.Rewrite(ctx, query)
	if err != nil {
		return Rewritten{}, fmt.Errorf("rewrite: %w", err)
	}
	return rewrittenFromResult(res), nil
}
