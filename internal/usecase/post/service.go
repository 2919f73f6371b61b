package post

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/domain"
	dompost "github.com/kailas-cloud/serbsearch/internal/domain/post"
	"github.com/kailas-cloud/serbsearch/internal/logger"
)

// Service manages searchable posts.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a post service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates and stores a new post.
func (s *Service) Create(ctx context.Context, title, content, password string) (dompost.Post, error) {
	p, err := dompost.New(title, content, password, s.now().UTC())
	if err != nil {
		return dompost.Post{}, fmt.Errorf("%w: %w", domain.ErrInvalidPost, err)
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return dompost.Post{}, fmt.Errorf("create post: %w", err)
	}

	logger.FromContext(ctx).Debug("post created",
		zap.Int64("id", created.ID()),
		zap.Bool("protected", created.Protected()),
	)
	return created, nil
}

// Get returns a post by ID.
func (s *Service) Get(ctx context.Context, id int64) (dompost.Post, error) {
	if id <= 0 {
		return dompost.Post{}, domain.ErrPostNotFound
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return dompost.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return p, nil
}

// Count returns the number of stored posts.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}
