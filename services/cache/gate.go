package cache

import (
	"errors"
	"strconv"
	"strings"
	"time"

	apperrors "sjsage522/mpcontacts/pkg/errors"
)

// Gate stops requests to a jurisdiction for BlockTime after its site
// answered with a rate-limit status.
type Gate struct {
	cache     CacheService
	blockTime time.Duration
}

// NewGate creates a gate backed by svc.
func NewGate(svc CacheService, blockTime time.Duration) *Gate {
	return &Gate{cache: svc, blockTime: blockTime}
}

// Key returns the cache key that marks jurisdiction as blocked.
func Key(jurisdiction string) string {
	return strings.ToLower(jurisdiction) + "_rate_limited"
}

// BlockTime returns how long a jurisdiction stays blocked.
func (g *Gate) BlockTime() time.Duration {
	if g == nil {
		return 0
	}
	return g.blockTime
}

// Blocked reports whether jurisdiction is currently blocked. A nil gate never
// blocks. Cache failures are returned alongside false so that an unreachable
// cache does not stop crawling.
func (g *Gate) Blocked(jurisdiction string) (bool, error) {
	if g == nil || g.cache == nil {
		return false, nil
	}
	_, err := g.cache.Get(Key(jurisdiction))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrMiss):
		return false, nil
	default:
		return false, apperrors.NewCache(jurisdiction, "check rate limit block", err)
	}
}

// Block marks jurisdiction as blocked for the gate's block time.
func (g *Gate) Block(jurisdiction string) error {
	if g == nil || g.cache == nil || g.blockTime <= 0 {
		return nil
	}
	value := []byte(strconv.Itoa(int(g.blockTime / time.Second)))
	if err := g.cache.Set(Key(jurisdiction), value, g.blockTime); err != nil {
		return apperrors.NewCache(jurisdiction, "set rate limit block", err)
	}
	return nil
}

// Clear lifts a block early.
func (g *Gate) Clear(jurisdiction string) error {
	if g == nil || g.cache == nil {
		return nil
	}
	if err := g.cache.Delete(Key(jurisdiction)); err != nil {
		return apperrors.NewCache(jurisdiction, "clear rate limit block", err)
	}
	return nil
}
