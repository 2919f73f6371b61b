// Package sqlite stores posts in SQLite via mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/kailas-cloud/serbsearch/internal/db"
)

// DriverName is the database/sql driver Open uses: go-sqlite3 with
// LowerFunc installed on every connection.
const DriverName = "sqlite3_serbsearch"

// LowerFunc lower-cases text with full Unicode case mapping. SQLite's own
// lower() and LIKE fold ASCII letters only.
const LowerFunc = "ulower"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(LowerFunc, strings.ToLower, true)
		},
	})
}

// Schema creates the posts table and its indexes.
const Schema = `
CREATE TABLE IF NOT EXISTS posts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT    NOT NULL,
	content      TEXT    NOT NULL DEFAULT '',
	password     TEXT    NOT NULL DEFAULT '',
	published_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts(published_at DESC);
`

// Config holds SQLite connection parameters.
type Config struct {
	// Path is a file path or ":memory:".
	Path         string
	MaxOpenConns int
}

// Store executes post queries against SQLite.
type Store struct {
	conn *sql.DB
}

// Open connects to the database and applies Schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	conn, err := sql.Open(DriverName, cfg.Path)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	// every in-memory connection is a separate database
	maxOpen := cfg.MaxOpenConns
	if cfg.Path == ":memory:" || maxOpen <= 0 {
		maxOpen = 1
	}
	conn.SetMaxOpenConns(maxOpen)

	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		_ = conn.Close()
		return nil, &db.Error{Op: db.OpSchema, Err: err}
	}

	return &Store{conn: conn}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// InsertPost stores a row and returns its ID.
func (s *Store) InsertPost(ctx context.Context, row db.PostRow) (int64, error) {
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO posts (title, content, password, published_at) VALUES (?, ?, ?, ?)`,
		row.Title, row.Content, row.Password, row.PublishedAt,
	)
	if err != nil {
		return 0, &db.Error{Op: db.OpInsert, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &db.Error{Op: db.OpInsert, Err: err}
	}
	return id, nil
}

// GetPost returns a row by ID or db.ErrNoRows.
func (s *Store) GetPost(ctx context.Context, id int64) (db.PostRow, error) {
	var row db.PostRow
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, content, password, published_at FROM posts WHERE id = ?`, id,
	).Scan(&row.ID, &row.Title, &row.Content, &row.Password, &row.PublishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.PostRow{}, db.ErrNoRows
		}
		return db.PostRow{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	return row, nil
}

// CountPosts returns the number of stored posts.
func (s *Store) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

// SearchPosts runs a filtered, ordered listing and counts all matches.
func (s *Store) SearchPosts(ctx context.Context, q *db.PostQuery) (*db.PostPage, error) {
	if q.OrderBy == "" {
		return nil, fmt.Errorf("order by is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM posts WHERE 1=1` + q.Where
	if err := s.conn.QueryRowContext(ctx, countSQL, q.Args...).Scan(&total); err != nil {
		return nil, &db.Error{Op: db.OpCount, Err: err}
	}
	if total == 0 || q.Offset >= total {
		return &db.PostPage{Total: total}, nil
	}

	listSQL := `SELECT posts.id, posts.title, posts.content, posts.password, posts.published_at` +
		` FROM posts WHERE 1=1` + q.Where +
		` ORDER BY ` + q.OrderBy + ` LIMIT ? OFFSET ?`
	args := make([]any, 0, len(q.Args)+len(q.OrderArgs)+2)
	args = append(args, q.Args...)
	args = append(args, q.OrderArgs...)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.conn.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	page := &db.PostPage{Total: total}
	for rows.Next() {
		var row db.PostRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Content, &row.Password, &row.PublishedAt); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		page.Rows = append(page.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return page, nil
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-time.After(100 * time.Millisecond):
		}
	}
}
