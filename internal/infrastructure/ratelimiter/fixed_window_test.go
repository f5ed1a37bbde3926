package ratelimiter

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedWindow_AllowsUpToLimit(t *testing.T) {
	req := require.New(t)

	rl := NewFixedWindowRateLimiter(3, time.Hour)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("1.2.3.4")
		req.True(ok)
	}

	ok, retryAfter := rl.Allow("1.2.3.4")
	req.False(ok)
	req.Positive(retryAfter)

	// Other keys have their own window.
	ok, _ = rl.Allow("5.6.7.8")
	req.True(ok)
}

func TestFixedWindow_ConcurrentCallersNeverExceedLimit(t *testing.T) {
	req := require.New(t)

	const limit = 10
	rl := NewFixedWindowRateLimiter(limit, time.Hour)
	defer rl.Close()

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow("shared"); ok {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	req.EqualValues(limit, allowed)
}

func TestFixedWindow_CloseIsIdempotent(t *testing.T) {
	rl := NewFixedWindowRateLimiter(1, time.Minute)
	rl.Close()
	rl.Close()
}
