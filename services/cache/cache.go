package cache

import (
	"fmt"
	"time"
)

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// RateLimitGuard tracks hosts that answered with a rate limiting status.
// While a block is active no further requests should be sent to the host.
type RateLimitGuard struct {
	svc       CacheService
	blockTime time.Duration
}

// NewRateLimitGuard creates a guard backed by the given cache service.
// A nil cache service yields a guard that never blocks.
func NewRateLimitGuard(svc CacheService, blockTime time.Duration) *RateLimitGuard {
	return &RateLimitGuard{svc: svc, blockTime: blockTime}
}

func blockKey(host string) string {
	return "fetch_block:" + host
}

// Blocked reports whether the host is currently blocked
func (g *RateLimitGuard) Blocked(host string) bool {
	if g == nil || g.svc == nil {
		return false
	}
	_, err := g.svc.Get(blockKey(host))
	return err == nil
}

// Block marks the host as blocked for the configured duration
func (g *RateLimitGuard) Block(host string) error {
	if g == nil || g.svc == nil {
		return nil
	}
	value := []byte(fmt.Sprintf("%d", int(g.blockTime/time.Second)))
	return g.svc.Set(blockKey(host), value, g.blockTime)
}

// BlockTime returns the configured block duration
func (g *RateLimitGuard) BlockTime() time.Duration {
	if g == nil {
		return 0
	}
	return g.blockTime
}
