package cache

import (
	"github.com/neximp/backend/internal/domain/shared"
	"github.com/neximp/backend/internal/infrastructure/config"
)

// NewIdempotencyStore returns a Redis-backed store when Redis is
// enabled in the configuration, falling back to the in-memory store
// otherwise.
func NewIdempotencyStore(cfg *config.RedisConfig) (shared.IdempotencyStore, error) {
	if cfg != nil && cfg.Enabled {
		return NewRedisIdempotencyStore(cfg)
	}
	return NewInMemoryIdempotencyStore(), nil
}
