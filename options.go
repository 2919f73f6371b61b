package serbsearch

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dbPath       string
	maxOpenConns int

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	variants  variant.Options
	stopwords []string

	logger *zap.Logger
}

// WithDatabase sets the SQLite file holding posts. ":memory:" keeps posts in RAM.
func WithDatabase(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dbPath = path
	})
}

// WithMaxOpenConns caps the SQLite connection pool.
func WithMaxOpenConns(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxOpenConns = n
	})
}

// WithValkey caches variant sets in a Valkey instance.
func WithValkey(addr, password string, ttl time.Duration) Option {
	return withCache(addr, password, ttl)
}

// WithRedis caches variant sets in a Redis instance.
func WithRedis(addr, password string, ttl time.Duration) Option {
	return withCache(addr, password, ttl)
}

func withCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithMaxVariants caps the size of each variant set.
func WithMaxVariants(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.variants.MaxVariants = n
	})
}

// WithStopwords replaces the built-in stopword list.
func WithStopwords(words ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stopwords = words
	})
}

// WithLogger sets the logger used for cache warnings and debug output.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
