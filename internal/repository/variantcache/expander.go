package variantcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/db"
	"github.com/kailas-cloud/serbsearch/internal/domain"
)

// keyVersion changes whenever the generator tables change shape.
const keyVersion = "v1"

var cacheKeyPrefix = domain.KeyPrefix + "variants:" + keyVersion + ":"

// DefaultTTL is used when New receives a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// store is the consumer interface for the variant cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetMultiWithTTL(ctx context.Context, items []db.SetItem, ttl time.Duration) error
}

// CachedExpander caches variant sets in a key-value store.
// Cache failures are logged and never fail an expansion.
type CachedExpander struct {
	inner      domain.Expander
	keyPrefix  string
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// fingerprint identifies the generator configuration behind inner; sets
// cached under one fingerprint are never served under another.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Expander,
	s store,
	fingerprint string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedExpander {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := cacheKeyPrefix
	if fingerprint != "" {
		prefix += fingerprint + ":"
	}
	return &CachedExpander{
		inner:      inner,
		keyPrefix:  prefix,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Expand returns a cached variant set or calls the inner expander.
func (c *CachedExpander) Expand(ctx context.Context, word string) ([]string, error) {
	key := c.cacheKey(word)

	if vs, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return vs, nil
	}

	c.incCache("miss")

	vs, err := c.inner.Expand(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("expand word: %w", err)
	}

	c.putToCache(ctx, key, vs)
	return vs, nil
}

// BatchExpand looks every word up in one round-trip and expands only the misses.
func (c *CachedExpander) BatchExpand(ctx context.Context, words []string) ([][]string, error) {
	if len(words) == 0 {
		return nil, nil
	}

	keys := make([]string, len(words))
	for i, w := range words {
		keys[i] = c.cacheKey(w)
	}

	out := make([][]string, len(words))
	var missIdx []int

	cached, err := c.store.GetMulti(ctx, keys)
	if err != nil {
		c.logger.Warn("Failed to get cached variants", zap.Int("words", len(words)), zap.Error(err))
		cached = nil
	}
	for i := range words {
		if i < len(cached) {
			if vs, ok := c.decode(keys[i], cached[i]); ok {
				out[i] = vs
				c.incCache("hit")
				continue
			}
		}
		c.incCache("miss")
		missIdx = append(missIdx, i)
	}

	if len(missIdx) == 0 {
		return out, nil
	}

	missWords := make([]string, len(missIdx))
	for j, i := range missIdx {
		missWords[j] = words[i]
	}
	expanded, err := domain.ExpandWords(ctx, c.inner, missWords)
	if err != nil {
		return nil, fmt.Errorf("expand misses: %w", err)
	}

	items := make([]db.SetItem, 0, len(missIdx))
	for j, i := range missIdx {
		out[i] = expanded[j]
		data, err := json.Marshal(expanded[j])
		if err != nil {
			continue
		}
		items = append(items, db.SetItem{Key: keys[i], Value: data})
	}
	if err := c.store.SetMultiWithTTL(ctx, items, c.ttl); err != nil {
		c.logger.Warn("Failed to cache variants", zap.Int("words", len(items)), zap.Error(err))
	}

	return out, nil
}

func (c *CachedExpander) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedExpander) cacheKey(word string) string {
	h := sha256.Sum256([]byte(word))
	return c.keyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedExpander) getFromCache(ctx context.Context, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached variants", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return c.decode(key, data)
}

func (c *CachedExpander) decode(key string, data []byte) ([]string, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil || len(vs) == 0 {
		c.logger.Warn("Failed to parse cached variants", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vs, true
}

func (c *CachedExpander) putToCache(ctx context.Context, key string, vs []string) {
	data, err := json.Marshal(vs)
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache variants", zap.String("key", key), zap.Error(err))
	}
}
