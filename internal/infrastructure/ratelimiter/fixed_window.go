package ratelimiter

import (
	"sync"
	"time"
)

type window struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// FixedWindowRateLimiter counts requests per key inside fixed, aligned time
// windows. Stale windows are swept on a background ticker so the key map
// does not grow without bound.
type FixedWindowRateLimiter struct {
	windows     sync.Map // key -> *window
	limit       int
	frame       time.Duration
	cleanupTick *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

func NewFixedWindowRateLimiter(limit int, frame time.Duration) *FixedWindowRateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if frame <= 0 {
		frame = 5 * time.Second
	}

	rl := &FixedWindowRateLimiter{
		limit:       limit,
		frame:       frame,
		cleanupTick: time.NewTicker(frame),
		done:        make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	now := time.Now()

	val, _ := rl.windows.LoadOrStore(key, &window{})
	win := val.(*window)

	win.mu.Lock()
	defer win.mu.Unlock()

	if now.After(win.resetAt) {
		win.count = 0
		win.resetAt = now.Truncate(rl.frame).Add(rl.frame)
	}

	if win.count >= rl.limit {
		return false, time.Until(win.resetAt)
	}

	win.count++
	return true, 0
}

func (rl *FixedWindowRateLimiter) startCleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindowRateLimiter) cleanup() {
	now := time.Now()
	rl.windows.Range(func(key, value any) bool {
		win := value.(*window)
		win.mu.Lock()
		stale := now.After(win.resetAt.Add(rl.frame))
		win.mu.Unlock()
		if stale {
			rl.windows.Delete(key)
		}
		return true
	})
}

func (rl *FixedWindowRateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
		rl.cleanupTick.Stop()
	})
}
