package serbsearch

import (
	"time"

	dompost "github.com/kailas-cloud/serbsearch/internal/domain/post"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/result"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	"github.com/kailas-cloud/serbsearch/internal/usecase/rewrite"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Sentence matches the whole query as one unexpanded phrase.
	Sentence bool
	// Exact matches terms as whole field values instead of substrings.
	Exact bool
	// Authenticated includes password-protected posts.
	Authenticated bool
	Limit         int
	Offset        int
}

// Post is a stored post.
type Post struct {
	ID          int64
	Title       string
	Content     string
	Protected   bool
	PublishedAt time.Time
}

// Page is one page of search hits.
type Page struct {
	Query    string
	Expanded string
	Terms    []string
	Total    int
	Posts    []Post
}

// Rewritten is a query expanded into its variants.
type Rewritten struct {
	Original string
	Expanded string
	Terms    []string
}

func postFromDomain(p *dompost.Post) Post {
	return Post{
		ID:          p.ID(),
		Title:       p.Title(),
		Content:     p.Content(),
		Protected:   p.Protected(),
		PublishedAt: p.PublishedAt(),
	}
}

func pageFromResult(p *result.Page) *Page {
	posts := p.Posts()
	out := make([]Post, len(posts))
	for i := range posts {
		out[i] = postFromDomain(&posts[i])
	}
	return &Page{
		Query:    p.Original(),
		Expanded: p.Expanded(),
		Terms:    p.Terms(),
		Total:    p.Total(),
		Posts:    out,
	}
}

func rewrittenFromResult(r rewrite.Result) Rewritten {
	return Rewritten{Original: r.Original, Expanded: r.Expanded, Terms: term.Texts(r.Terms)}
}
