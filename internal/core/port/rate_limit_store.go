package port

import (
	"context"
	"time"
)

// RateLimitStore is the keyed-counter service behind fixed-window rate
// limiting. Incr atomically bumps the counter for key, starting a new
// window when the previous one has elapsed, and returns the count inside
// the active window together with the moment the window resets.
//
// Implementations must not lose updates under concurrent calls for the
// same key: two racing increments observe distinct counts.
type RateLimitStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, reset time.Time, err error)
}
