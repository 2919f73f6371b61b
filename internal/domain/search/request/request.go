package request

import (
	"fmt"
	"strings"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Request is a validated search query.
type Request struct {
	query         string
	sentence      bool
	exact         bool
	authenticated bool
	limit         int
	offset        int
}

// New validates and normalizes search parameters.
// Limit defaults to DefaultLimit and is clamped to MaxLimit.
func New(query string, sentence, exact, authenticated bool, limit, offset int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if offset < 0 {
		return Request{}, fmt.Errorf("offset must be non-negative")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:         query,
		sentence:      sentence,
		exact:         exact,
		authenticated: authenticated,
		limit:         limit,
		offset:        offset,
	}, nil
}

// Query returns the search query text as typed by the user.
func (r *Request) Query() string { return r.query }

// Sentence reports whether the whole query is one phrase.
func (r *Request) Sentence() bool { return r.sentence }

// Exact reports whether terms must match whole fields.
func (r *Request) Exact() bool { return r.exact }

// Authenticated reports whether the caller may see protected posts.
func (r *Request) Authenticated() bool { return r.authenticated }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the number of rows to skip.
func (r *Request) Offset() int { return r.offset }
