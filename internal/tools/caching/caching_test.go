package caching

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type cachedPayload struct {
	Code   string   `json:"code"`
	Photos []string `json:"photos"`
}

func compressed(t *testing.T, value any) []byte {
	t.Helper()

	marshalled, err := json.Marshal(value)
	assert.Nil(t, err)

	deflated, err := deflate(marshalled)
	assert.Nil(t, err)

	return deflated
}

func TestCacher(t *testing.T) {
	t.Run("should store compressed json", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		cacher := NewRedisCache(redisClient)

		payload := cachedPayload{Code: "V1", Photos: []string{"a", "b"}}
		mock.ExpectSetEx("photos:V1", compressed(t, payload), 10*time.Minute).SetVal("")

		err := cacher.Store(context.Background(), "photos:V1", payload, 10*time.Minute)
		assert.Nil(t, err)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("should fetch and unmarshal", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		cacher := NewRedisCache(redisClient)

		payload := cachedPayload{Code: "V1", Photos: []string{"a"}}
		mock.ExpectGet("photos:V1").SetVal(string(compressed(t, payload)))

		var destination cachedPayload
		hit := cacher.Fetch(context.Background(), "photos:V1", &destination)

		assert.True(t, hit)
		assert.Equal(t, payload, destination)
	})

	t.Run("should report a miss on absent key", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		cacher := NewRedisCache(redisClient)

		mock.ExpectGet("photos:V2").RedisNil()

		var destination cachedPayload
		hit := cacher.Fetch(context.Background(), "photos:V2", &destination)

		assert.False(t, hit)
	})

	t.Run("should report a miss on corrupt entry", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		cacher := NewRedisCache(redisClient)

		mock.ExpectGet("photos:V3").SetVal("not deflate data")

		var destination cachedPayload
		hit := cacher.Fetch(context.Background(), "photos:V3", &destination)

		assert.False(t, hit)
	})
}
