package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/serbsearch/internal/db"
	"github.com/kailas-cloud/serbsearch/internal/domain"
	dompost "github.com/kailas-cloud/serbsearch/internal/domain/post"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/clause"
)

// store is the consumer interface for posts (ISP).
type store interface {
	InsertPost(ctx context.Context, row db.PostRow) (int64, error)
	GetPost(ctx context.Context, id int64) (db.PostRow, error)
	CountPosts(ctx context.Context) (int, error)
	SearchPosts(ctx context.Context, q *db.PostQuery) (*db.PostPage, error)
}

// Repo implements usecase/post.Repository and usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a post repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a post and returns it with its ID.
func (r *Repo) Create(ctx context.Context, p dompost.Post) (dompost.Post, error) {
	id, err := r.store.InsertPost(ctx, toRow(&p))
	if err != nil {
		return dompost.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p.WithID(id), nil
}

// Get returns a post by ID.
func (r *Repo) Get(ctx context.Context, id int64) (dompost.Post, error) {
	row, err := r.store.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return dompost.Post{}, domain.ErrPostNotFound
		}
		return dompost.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return fromRow(row), nil
}

// Count returns the number of posts.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.CountPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Search runs a built clause and returns one page of posts plus the total.
func (r *Repo) Search(ctx context.Context, c clause.Clause, limit, offset int) ([]dompost.Post, int, error) {
	if c.IsEmpty() {
		return nil, 0, nil
	}

	page, err := r.store.SearchPosts(ctx, &db.PostQuery{
		Where:     c.Where,
		Args:      c.Args,
		OrderBy:   c.OrderBy,
		OrderArgs: c.OrderArgs,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}

	posts := make([]dompost.Post, 0, len(page.Rows))
	for _, row := range page.Rows {
		posts = append(posts, fromRow(row))
	}
	return posts, page.Total, nil
}

func toRow(p *dompost.Post) db.PostRow {
	return db.PostRow{
		Title:       p.Title(),
		Content:     p.Content(),
		Password:    p.Password(),
		PublishedAt: p.PublishedAt().UnixNano(),
	}
}

func fromRow(row db.PostRow) dompost.Post {
	return dompost.Reconstruct(
		row.ID, row.Title, row.Content, row.Password,
		time.Unix(0, row.PublishedAt).UTC(),
	)
}
