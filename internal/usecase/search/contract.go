package search

import (
	"context"

	"github.com/kailas-cloud/serbsearch/internal/domain/post"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/clause"
	"github.com/kailas-cloud/serbsearch/internal/usecase/rewrite"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Search(ctx context.Context, c clause.Clause, limit, offset int) ([]post.Post, int, error)
}

// Rewriter expands a query into its variant form.
type Rewriter interface {
	Rewrite(ctx context.Context, query string) (rewrite.Result, error)
}
