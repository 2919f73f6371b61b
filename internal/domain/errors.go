package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidQuery signals malformed search parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrPostNotFound signals a missing post.
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidPost signals a post that failed validation.
	ErrInvalidPost = errors.New("invalid post")
	// ErrUnauthorized signals a rejected API key.
	ErrUnauthorized = errors.New("unauthorized")
)
