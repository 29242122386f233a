package repository

import (
	"context"
	"time"
)

// UsageCounter counts jobs served per identity key within a fixed window.
// Peek and Add are separate calls: two requests for the same key can both
// Peek before either Adds, so the quota can briefly overshoot. Keeping both
// behind this interface means an atomic add-and-check can replace the pair
// later without touching call sites.
type UsageCounter interface {
	// Peek returns the current count, or 0 if the key is absent or expired.
	Peek(ctx context.Context, key string) (int, error)

	// Add increments the count by `by` (must be > 0). The TTL is applied only
	// on the first write in a window; later increments leave it untouched.
	Add(ctx context.Context, key string, by int, ttl time.Duration) error
}
