package common

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// LimitResult describes the state of a key after a call to Allow.
type LimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// WindowLimiter counts hits per key in fixed windows. A window starts with the
// first hit for a key and lasts for the configured duration.
type WindowLimiter struct {
	mu     sync.Mutex
	hits   *cache.Cache
	limit  int
	window time.Duration
}

func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		hits:   cache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *WindowLimiter) Allow(key string) LimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add fails when the key already has a live window.
	_ = l.hits.Add(key, 0, l.window)

	count, err := l.hits.IncrementInt(key, 1)
	if err != nil {
		l.hits.Set(key, 1, l.window)
		count = 1
	}

	_, reset, _ := l.hits.GetWithExpiration(key)

	return LimitResult{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
		Reset:     reset,
	}
}

// Reset forgets every hit recorded for key.
func (l *WindowLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hits.Delete(key)
}
