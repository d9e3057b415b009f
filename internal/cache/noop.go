package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NoopTaskCache is the TaskCache used when no cache backend is configured.
// Every read is a miss and every write is a no-op, so all task queries go
// straight to the relational store.
type NoopTaskCache struct{}

// NewNoopTaskCache creates a no-op TaskCache.
func NewNoopTaskCache() *NoopTaskCache {
	return &NoopTaskCache{}
}

// Ensure NoopTaskCache implements TaskCache interface
var _ TaskCache = (*NoopTaskCache)(nil)

// GetPage always reports a miss.
func (c *NoopTaskCache) GetPage(ctx context.Context, key PageKey) ([]byte, error) {
	return nil, ErrCacheMiss
}

// SetPage does nothing.
func (c *NoopTaskCache) SetPage(ctx context.Context, key PageKey, payload []byte, ttl time.Duration) error {
	return nil
}

// InvalidateUser does nothing.
func (c *NoopTaskCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return nil
}
