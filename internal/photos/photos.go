package photos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

type remoteStore interface {
	Query(ctx context.Context, action string, params any) (json.RawMessage, error)
}

type responseCache interface {
	Store(ctx context.Context, key string, value any, ttl time.Duration) error
	Fetch(ctx context.Context, key string, destination any) bool
}

// Galleries change when the fleet changes, not per booking. A long TTL keeps
// the remote store out of the hot path.
const cacheTTL = 12 * time.Hour

// Workflow loads vehicle photo galleries lazily, keyed by vehicle code.
type Workflow struct {
	store  remoteStore
	cache  responseCache
	logger *zerolog.Logger
}

func New(store remoteStore, cache responseCache, logger *zerolog.Logger) *Workflow {
	return &Workflow{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

type photoParams struct {
	Code string `url:"code"`
}

// Fetch returns the photo URLs for one vehicle, served from cache when a
// fresh copy exists. An error leaves the caller with the primary image only.
func (w *Workflow) Fetch(ctx context.Context, code string) ([]string, error) {
	key := "photos:" + code

	var cached []string
	if w.cache.Fetch(ctx, key, &cached) {
		w.logger.Info().
			Str("label", "cache").
			Bool("hit", true).
			Str("key", key).
			Msg("Used cached gallery")

		return cached, nil
	}

	raw, err := w.store.Query(ctx, "getVehiclePhotos", photoParams{Code: code})
	if err != nil {
		return nil, err
	}

	urls := []string{}
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, err
	}

	if err := w.cache.Store(ctx, key, urls, cacheTTL); err != nil {
		w.logger.Warn().
			Str("label", "cache").
			Str("key", key).
			Str("error", err.Error()).
			Msg("Unable to cache the gallery")
	}

	return urls, nil
}
