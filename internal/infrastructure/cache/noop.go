package cache

import (
	"context"
	"time"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/port"
)

// NoopCache implements port.Cache by caching nothing. Used when Redis is
// disabled; every lookup is a miss and the engine computes fresh.
type NoopCache struct{}

// NewNoopCache creates a cache that never hits.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (*NoopCache) Get(context.Context, port.CacheKey, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NoopCache) Put(context.Context, port.CacheKey, string, []byte, time.Duration) error {
	return nil
}

func (*NoopCache) Invalidate(context.Context, string) error {
	return nil
}
