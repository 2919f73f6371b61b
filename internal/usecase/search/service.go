package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/serbsearch/internal/domain"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/clause"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/result"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	"github.com/kailas-cloud/serbsearch/internal/metrics"
)

// Service runs variant-expanded LIKE searches over posts.
type Service struct {
	repo     Repository
	rewriter Rewriter
	columns  clause.Columns
}

// New creates a search service. Zero columns select clause.DefaultColumns.
func New(repo Repository, rewriter Rewriter, columns clause.Columns) *Service {
	return &Service{repo: repo, rewriter: rewriter, columns: columns}
}

// Search rewrites the query, builds the clause and fetches one page.
// Sentence searches match the query as one unexpanded phrase.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	var (
		expanded string
		terms    []term.Term
	)

	if req.Sentence() {
		expanded = req.Query()
		terms = term.Parse(req.Query(), true, nil)
	} else {
		rw, err := s.rewriter.Rewrite(ctx, req.Query())
		if err != nil {
			return result.Page{}, fmt.Errorf("rewrite query: %w", err)
		}
		expanded, terms = rw.Expanded, rw.Terms
	}
	if len(terms) == 0 {
		return result.Page{}, domain.ErrEmptyQuery
	}
	if len(terms) > clause.MaxTerms {
		return result.Page{}, fmt.Errorf("%w: query expands to %d terms, limit is %d",
			domain.ErrInvalidQuery, len(terms), clause.MaxTerms)
	}
	metrics.SearchQueriesTotal.WithLabelValues(searchMode(req)).Inc()

	c := clause.Build(terms, clause.Options{
		Exact:         req.Exact(),
		Authenticated: req.Authenticated(),
		Phrase:        req.Query(),
		Columns:       s.columns,
	})

	posts, total, err := s.repo.Search(ctx, c, req.Limit(), req.Offset())
	if err != nil {
		return result.Page{}, fmt.Errorf("search posts: %w", err)
	}

	return result.New(req.Query(), expanded, term.Texts(terms), posts, total), nil
}

func searchMode(req *request.Request) string {
	switch {
	case req.Exact():
		return "exact"
	case req.Sentence():
		return "sentence"
	default:
		return "terms"
	}
}
