package variantcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/db"
)

type mockExpander struct {
	err        error
	calls      int
	batchCalls int
	batchWords []string
}

func (m *mockExpander) Expand(_ context.Context, word string) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []string{word, word + "e"}, nil
}

func (m *mockExpander) BatchExpand(_ context.Context, words []string) ([][]string, error) {
	m.batchCalls++
	m.batchWords = words
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]string, len(words))
	for i, w := range words {
		out[i] = []string{w, w + "e"}
	}
	return out, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn      func(ctx context.Context, key string) ([]byte, error)
	getMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
	setFn      func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	setMultiFn func(ctx context.Context, items []db.SetItem, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) GetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) SetMultiWithTTL(ctx context.Context, items []db.SetItem, ttl time.Duration) error {
	if m.setMultiFn != nil {
		return m.setMultiFn(ctx, items, ttl)
	}
	return nil
}

func newTestCachedExpander(t *testing.T, inner *mockExpander) (*CachedExpander, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, "", time.Hour, nil, zap.NewNop())
	return ce, ms
}
