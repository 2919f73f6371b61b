package serbsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/serbsearch/internal/db/redis"
	"github.com/kailas-cloud/serbsearch/internal/db/sqlite"
	"github.com/kailas-cloud/serbsearch/internal/domain"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/clause"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
	"github.com/kailas-cloud/serbsearch/internal/metrics"
	postrepo "github.com/kailas-cloud/serbsearch/internal/repository/post"
	"github.com/kailas-cloud/serbsearch/internal/repository/variantcache"
	postuc "github.com/kailas-cloud/serbsearch/internal/usecase/post"
	"github.com/kailas-cloud/serbsearch/internal/usecase/rewrite"
	searchuc "github.com/kailas-cloud/serbsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the serbsearch SDK entry point: a post store searched with
// variant-expanded queries.
type Client struct {
	store     *sqlite.Store
	cache     *dbRedis.Store
	expander  domain.Expander
	rewriter  *rewrite.Service
	searchSvc *searchuc.Service
	postSvc   *postuc.Service
}

// New creates a Client and opens its database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dbPath == "" {
		return nil, errors.New("serbsearch: database path required (use WithDatabase)")
	}

	gen, err := variant.New(cfg.variants)
	if err != nil {
		return nil, fmt.Errorf("serbsearch: variant generator: %w", err)
	}

	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.dbPath, MaxOpenConns: cfg.maxOpenConns})
	if err != nil {
		return nil, fmt.Errorf("serbsearch: open database: %w", err)
	}

	cache, err := createCache(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return wireClient(store, cache, gen, cfg), nil
}

func createCache(ctx context.Context, cfg *clientConfig) (*dbRedis.Store, error) {
	if len(cfg.cacheAddrs) == 0 {
		return nil, nil
	}
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("serbsearch: create cache store: %w", err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("serbsearch: cache not ready: %w", err)
	}
	return s, nil
}

func wireClient(store *sqlite.Store, cache *dbRedis.Store, gen *variant.Generator, cfg *clientConfig) *Client {
	var expander domain.Expander = domain.NewGeneratorExpander(gen)
	if cache != nil {
		expander = variantcache.New(expander, cache, gen.Fingerprint(), cfg.cacheTTL, metrics.VariantCacheTotal, cfg.logger)
	}

	stopwords := term.DefaultStopwords()
	if len(cfg.stopwords) > 0 {
		stopwords = term.NewStopwords(cfg.stopwords)
	}

	posts := postrepo.New(store)
	rewriter := rewrite.New(expander, stopwords)

	return &Client{
		store:     store,
		cache:     cache,
		expander:  expander,
		rewriter:  rewriter,
		searchSvc: searchuc.New(posts, rewriter, clause.DefaultColumns()),
		postSvc:   postuc.New(posts),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		_ = c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Variants expands one word through the client's generator and cache.
func (c *Client) Variants(ctx context.Context, word string) ([]string, error) {
	vs, err := c.expander.Expand(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("variants: %w", err)
	}
	return vs, nil
}

// Rewrite expands every word of query.
func (c *Client) Rewrite(ctx context.Context, query string) (Rewritten, error) {
	res, err := c.rewriter.Rewrite(ctx, query)
	if err != nil {
		return Rewritten{}, fmt.Errorf("rewrite: %w", err)
	}
	return rewrittenFromResult(res), nil
}

// AddPost stores a post. A non-empty password makes it visible only to
// authenticated searches.
func (c *Client) AddPost(ctx context.Context, title, content, password string) (Post, error) {
	p, err := c.postSvc.Create(ctx, title, content, password)
	if err != nil {
		return Post{}, fmt.Errorf("add post: %w", err)
	}
	return postFromDomain(&p), nil
}

// GetPost returns a post by ID.
func (c *Client) GetPost(ctx context.Context, id int64) (Post, error) {
	p, err := c.postSvc.Get(ctx, id)
	if err != nil {
		return Post{}, fmt.Errorf("get post: %w", err)
	}
	return postFromDomain(&p), nil
}

// Search runs a variant-expanded search. A nil opts searches anonymously
// with the default page size.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*Page, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	req, err := request.New(query, opts.Sentence, opts.Exact, opts.Authenticated, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("search: %w: %w", domain.ErrInvalidQuery, err)
	}

	page, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return pageFromResult(&page), nil
}
