package post

import (
	"context"

	dompost "github.com/kailas-cloud/serbsearch/internal/domain/post"
)

// Repository defines the storage contract for posts.
type Repository interface {
	Create(ctx context.Context, p dompost.Post) (dompost.Post, error)
	Get(ctx context.Context, id int64) (dompost.Post, error)
	Count(ctx context.Context) (int, error)
}
