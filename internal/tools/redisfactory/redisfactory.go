package redisfactory

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Factory hands out the two redis connections the service uses: one for
// cached remote responses (photos, soon-available lists), one for the search
// grouping locks. Separate URIs so either can be split off later.

type Factory struct {
	groupingCache  *redis.Client
	responsesCache *redis.Client
}

func New() *Factory {
	return &Factory{
		groupingCache:  clientFromEnv("SEARCH_GROUPING_REDIS_URI"),
		responsesCache: clientFromEnv("RESPONSES_CACHE_REDIS_URI"),
	}
}

func clientFromEnv(envName string) *redis.Client {
	opt, err := redis.ParseURL(os.Getenv(envName))
	if err != nil {
		panic(err)
	}

	opt.DialTimeout = 4 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	return redis.NewClient(opt)
}

func (f *Factory) GroupingClient() *redis.Client {
	return f.groupingCache
}

func (f *Factory) ResponsesCacheClient() *redis.Client {
	return f.responsesCache
}
