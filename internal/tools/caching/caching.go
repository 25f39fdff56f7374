package caching

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Engine is the raw key/value store underneath a Cacher.
type Engine interface {
	Store(ctx context.Context, key string, value any, ttl time.Duration) error
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Cacher stores JSON-marshalled values deflate-compressed. Photo galleries
// are mostly base64 image payloads, compression pays for itself there.
type Cacher struct {
	engine Engine
}

func NewRedisCache(redisClient *redis.Client) *Cacher {
	return &Cacher{
		engine: &redisEngine{
			redis: redisClient,
		},
	}
}

func (c *Cacher) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	marshalled, err := json.Marshal(value)
	if err != nil {
		return err
	}

	compressed, err := deflate(marshalled)
	if err != nil {
		return err
	}

	return c.engine.Store(ctx, key, compressed, ttl)
}

// Fetch unmarshals the cached value into destination. A miss, an expired key
// or a corrupt entry all report false, the caller falls through to the
// remote store.
func (c *Cacher) Fetch(ctx context.Context, key string, destination any) bool {
	value, err := c.engine.Fetch(ctx, key)
	if err != nil || value == nil {
		return false
	}

	uncompressed, err := inflate(value)
	if err != nil {
		return false
	}

	return json.Unmarshal(uncompressed, destination) == nil
}

type redisEngine struct {
	redis *redis.Client
}

func (e *redisEngine) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	_, err := e.redis.SetEx(ctx, key, value, ttl).Result()
	return err
}

func (e *redisEngine) Fetch(ctx context.Context, key string) ([]byte, error) {
	value, err := e.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return value, nil
}

func deflate(uncompressed []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, _ := flate.NewWriter(&buffer, flate.BestSpeed)

	if _, err := writer.Write(uncompressed); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	buffer := bytes.NewReader(compressed)
	reader := flate.NewReader(buffer)
	defer reader.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(reader); err != nil {
		return []byte{}, err
	}

	return out.Bytes(), nil
}
