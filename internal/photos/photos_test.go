package photos

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubStore struct {
	calls    int
	response json.RawMessage
	err      error
}

func (s *stubStore) Query(ctx context.Context, action string, params any) (json.RawMessage, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	return s.response, nil
}

type stubCache struct {
	stored map[string][]byte
	ttls   map[string]time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{
		stored: map[string][]byte{},
		ttls:   map[string]time.Duration{},
	}
}

func (c *stubCache) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	marshalled, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.stored[key] = marshalled
	c.ttls[key] = ttl

	return nil
}

func (c *stubCache) Fetch(ctx context.Context, key string, destination any) bool {
	value, found := c.stored[key]
	if !found {
		return false
	}

	return json.Unmarshal(value, destination) == nil
}

func createWorkflow(store *stubStore, cache *stubCache) *Workflow {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	return New(store, cache, &log)
}

func TestFetchPhotos(t *testing.T) {
	gallery := []string{
		"https://img.example.com/eco-1/front.jpg",
		"https://img.example.com/eco-1/side.jpg",
	}

	t.Run("should query the remote store and cache the gallery", func(t *testing.T) {
		response, _ := json.Marshal(gallery)
		store := &stubStore{response: response}
		cache := newStubCache()

		urls, err := createWorkflow(store, cache).Fetch(context.Background(), "eco-1")

		assert.NoError(t, err)
		assert.Equal(t, gallery, urls)
		assert.Equal(t, 1, store.calls)
		assert.Contains(t, cache.stored, "photos:eco-1")
		assert.Equal(t, cacheTTL, cache.ttls["photos:eco-1"])
	})

	t.Run("should serve a cached gallery without querying", func(t *testing.T) {
		store := &stubStore{}
		cache := newStubCache()
		_ = cache.Store(context.Background(), "photos:eco-1", gallery, cacheTTL)

		urls, err := createWorkflow(store, cache).Fetch(context.Background(), "eco-1")

		assert.NoError(t, err)
		assert.Equal(t, gallery, urls)
		assert.Equal(t, 0, store.calls)
	})

	t.Run("should report a failed query", func(t *testing.T) {
		store := &stubStore{err: assert.AnError}

		urls, err := createWorkflow(store, newStubCache()).Fetch(context.Background(), "eco-1")

		assert.Error(t, err)
		assert.Nil(t, urls)
	})

	t.Run("should report a malformed gallery payload", func(t *testing.T) {
		store := &stubStore{response: json.RawMessage(`{"not":"a list"}`)}
		cache := newStubCache()

		urls, err := createWorkflow(store, cache).Fetch(context.Background(), "eco-1")

		assert.Error(t, err)
		assert.Nil(t, urls)
		assert.NotContains(t, cache.stored, "photos:eco-1")
	})

	t.Run("should keep the response when caching fails", func(t *testing.T) {
		response, _ := json.Marshal([]string{"https://img.example.com/van-2/front.jpg"})
		store := &stubStore{response: response}

		workflow := createWorkflow(store, newStubCache())
		workflow.cache = &failingCache{}

		urls, err := workflow.Fetch(context.Background(), "van-2")

		assert.NoError(t, err)
		assert.Len(t, urls, 1)
	})
}

type failingCache struct{}

func (c *failingCache) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	return assert.AnError
}

func (c *failingCache) Fetch(ctx context.Context, key string, destination any) bool {
	return false
}
