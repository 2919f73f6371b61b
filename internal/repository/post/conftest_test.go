package post

import (
	"context"

	"github.com/kailas-cloud/serbsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	insertFn func(ctx context.Context, row db.PostRow) (int64, error)
	getFn    func(ctx context.Context, id int64) (db.PostRow, error)
	countFn  func(ctx context.Context) (int, error)
	searchFn func(ctx context.Context, q *db.PostQuery) (*db.PostPage, error)
}

func (m *mockStore) InsertPost(ctx context.Context, row db.PostRow) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, row)
	}
	return 1, nil
}

func (m *mockStore) GetPost(ctx context.Context, id int64) (db.PostRow, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return db.PostRow{}, db.ErrNoRows
}

func (m *mockStore) CountPosts(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockStore) SearchPosts(ctx context.Context, q *db.PostQuery) (*db.PostPage, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.PostPage{}, nil
}
