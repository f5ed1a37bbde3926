package ratelimiter

import "time"

// Limiter throttles by an opaque source key (usually the remote address).
// Allow reports whether the request may proceed and, when it may not, how
// long the caller should wait before retrying.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
	Close()
}
