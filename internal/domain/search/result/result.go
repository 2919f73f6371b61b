package result

import "github.com/kailas-cloud/serbsearch/internal/domain/post"

// Page is one page of search hits.
type Page struct {
	original string
	expanded string
	terms    []string
	posts    []post.Post
	total    int
}

// New creates a search result page.
func New(original, expanded string, terms []string, posts []post.Post, total int) Page {
	return Page{
		original: original, expanded: expanded,
		terms: terms, posts: posts, total: total,
	}
}

// Original returns the query as typed.
func (p *Page) Original() string { return p.original }

// Expanded returns the variant-expanded query.
func (p *Page) Expanded() string { return p.expanded }

// Terms returns the terms the search ran on.
func (p *Page) Terms() []string { return p.terms }

// Posts returns the hits of this page.
func (p *Page) Posts() []post.Post { return p.posts }

// Total returns the number of hits across all pages.
func (p *Page) Total() int { return p.total }
