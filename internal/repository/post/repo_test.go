package post

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/kailas-cloud/serbsearch/internal/db"
	"github.com/kailas-cloud/serbsearch/internal/db/sqlite"
	"github.com/kailas-cloud/serbsearch/internal/domain"
	dompost "github.com/kailas-cloud/serbsearch/internal/domain/post"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/clause"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
)

func mustPost(t *testing.T, title, content, password string, at time.Time) dompost.Post {
	t.Helper()
	p, err := dompost.New(title, content, password, at)
	if err != nil {
		t.Fatalf("post.New: %v", err)
	}
	return p
}

func TestCreate_AssignsID(t *testing.T) {
	var got db.PostRow
	ms := &mockStore{insertFn: func(_ context.Context, row db.PostRow) (int64, error) {
		got = row
		return 7, nil
	}}
	r := New(ms)

	at := time.Unix(1700000000, 0).UTC()
	p, err := r.Create(context.Background(), mustPost(t, "Mačka", "tekst", "pw", at))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != 7 {
		t.Errorf("ID() = %d, want 7", p.ID())
	}
	if got.Title != "Mačka" || got.Password != "pw" || got.PublishedAt != at.UnixNano() {
		t.Errorf("unexpected row: %+v", got)
	}
}

func TestCreate_StoreError(t *testing.T) {
	ms := &mockStore{insertFn: func(_ context.Context, _ db.PostRow) (int64, error) {
		return 0, &db.Error{Op: db.OpInsert, Err: errors.New("disk full")}
	}}
	if _, err := New(ms).Create(context.Background(), mustPost(t, "t", "", "", time.Time{})); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_NotFound(t *testing.T) {
	r := New(&mockStore{})
	_, err := r.Get(context.Background(), 1)
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	storeErr := &db.Error{Op: db.OpSelect, Err: errors.New("locked")}
	ms := &mockStore{getFn: func(_ context.Context, _ int64) (db.PostRow, error) {
		return db.PostRow{}, storeErr
	}}
	_, err := New(ms).Get(context.Background(), 1)
	if errors.Is(err, domain.ErrPostNotFound) || !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestSearch_EmptyClause(t *testing.T) {
	called := false
	ms := &mockStore{searchFn: func(_ context.Context, _ *db.PostQuery) (*db.PostPage, error) {
		called = true
		return &db.PostPage{}, nil
	}}
	posts, total, err := New(ms).Search(context.Background(), clause.Clause{}, 10, 0)
	if err != nil || posts != nil || total != 0 {
		t.Errorf("unexpected result: %v %d %v", posts, total, err)
	}
	if called {
		t.Error("empty clause must not hit the store")
	}
}

func TestSearch_PassesClause(t *testing.T) {
	var got *db.PostQuery
	ms := &mockStore{searchFn: func(_ context.Context, q *db.PostQuery) (*db.PostPage, error) {
		got = q
		return &db.PostPage{Total: 3, Rows: []db.PostRow{{ID: 1, Title: "Mačka"}}}, nil
	}}

	c := clause.Build(term.Filter([]string{"mačka"}, nil), clause.Options{})
	posts, total, err := New(ms).Search(context.Background(), c, 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(posts) != 1 || posts[0].Title() != "Mačka" {
		t.Errorf("unexpected result: %d %v", total, posts)
	}
	if got.Where != c.Where || got.Limit != 5 || got.Offset != 10 || len(got.Args) != 2 {
		t.Errorf("unexpected query: %+v", got)
	}
}

// End-to-end against an in-memory database.
func TestRepo_SQLite(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()
	r := New(s)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []struct{ title, content, password string }{
		{"Crna mačka", "", ""},
		{"Pas", "priča o mački", ""},
		{"Crno", "crna mačka na krovu", ""},
		{"Tajna", "mačka", "secret"},
	} {
		if _, err := r.Create(ctx, mustPost(t, p.title, p.content, p.password, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if n, err := r.Count(ctx); err != nil || n != 4 {
		t.Fatalf("count = %d, %v", n, err)
	}

	terms := term.Filter([]string{"crna", "mačka", "mački"}, nil)
	c := clause.Build(terms, clause.Options{Phrase: "crna mačka"})
	posts, total, err := r.Search(ctx, c, 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3 (protected post hidden)", total)
	}
	// title phrase match first, then content phrase match, then the rest
	want := []string{"Crna mačka", "Crno", "Pas"}
	for i, p := range posts {
		if p.Title() != want[i] {
			t.Errorf("posts[%d] = %q, want %q", i, p.Title(), want[i])
		}
	}

	got, err := r.Get(ctx, posts[0].ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.PublishedAt().Equal(base) {
		t.Errorf("PublishedAt() = %v, want %v", got.PublishedAt(), base)
	}
}

func TestRepo_SQLiteManyTerms(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()
	r := New(s)

	if _, err := r.Create(ctx, mustPost(t, "Reka", "w999 na kraju", "", time.Unix(1, 0))); err != nil {
		t.Fatalf("create: %v", err)
	}

	words := make([]string, 1000)
	for i := range words {
		words[i] = "w" + strconv.Itoa(i)
	}
	c := clause.Build(term.Filter(words, nil), clause.Options{Phrase: "w0 w1"})
	posts, total, err := r.Search(ctx, c, 10, 0)
	if err != nil {
		t.Fatalf("search with %d terms: %v", len(words), err)
	}
	if total != 1 || posts[0].Title() != "Reka" {
		t.Errorf("unexpected result: %d %v", total, posts)
	}
}

func TestRepo_SQLiteUnicodeCase(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()
	r := New(s)

	for _, title := range []string{"Београд", "ŠABAC"} {
		if _, err := r.Create(ctx, mustPost(t, title, "", "", time.Unix(1, 0))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	for _, q := range []string{"београд", "šabac", "БЕОГРАД"} {
		c := clause.Build(term.Filter([]string{q}, nil), clause.Options{})
		_, total, err := r.Search(ctx, c, 10, 0)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		if total != 1 {
			t.Errorf("search %q matched %d posts, want 1", q, total)
		}
	}
}
