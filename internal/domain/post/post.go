package post

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Size limits.
const (
	MaxTitleLength = 512
	MaxContentSize = 1 << 20 // 1MB
	MaxPassword    = 128
)

// Post is a published piece of content (immutable value object).
// A non-empty password marks the post as protected.
type Post struct {
	id          int64
	title       string
	content     string
	password    string
	publishedAt time.Time
}

// New validates and creates a Post. The ID is assigned by storage.
func New(title, content, password string, publishedAt time.Time) (Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Post{}, fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return Post{}, fmt.Errorf("title too long (max %d chars)", MaxTitleLength)
	}
	if !utf8.ValidString(title) || !utf8.ValidString(content) {
		return Post{}, fmt.Errorf("post text must be valid UTF-8")
	}
	if len(content) > MaxContentSize {
		return Post{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if len(password) > MaxPassword {
		return Post{}, fmt.Errorf("password too long (max %d bytes)", MaxPassword)
	}
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	return Post{
		title:       title,
		content:     content,
		password:    password,
		publishedAt: publishedAt.UTC(),
	}, nil
}

// Reconstruct creates a Post without validation (storage hydration).
func Reconstruct(id int64, title, content, password string, publishedAt time.Time) Post {
	return Post{id: id, title: title, content: content, password: password, publishedAt: publishedAt}
}

// WithID returns a copy of the post carrying the storage-assigned ID.
func (p Post) WithID(id int64) Post {
	p.id = id
	return p
}

// ID returns the post identifier (0 until stored).
func (p *Post) ID() int64 { return p.id }

// Title returns the post title.
func (p *Post) Title() string { return p.title }

// Content returns the post body.
func (p *Post) Content() string { return p.content }

// Password returns the protection password, empty for public posts.
func (p *Post) Password() string { return p.password }

// Protected reports whether the post requires a password.
func (p *Post) Protected() bool { return p.password != "" }

// PublishedAt returns the publication time.
func (p *Post) PublishedAt() time.Time { return p.publishedAt }
