package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	dur   time.Duration
	count int64
}

func (w *window) closedFor(now time.Time, slack time.Duration) bool {
	return now.Sub(w.start) >= w.dur+slack
}

// MemoryCounter is the single-process Counter backend. Windows reset
// lazily on the first increment past their end.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryCounter() *MemoryCounter {
	mc := &MemoryCounter{
		windows: make(map[string]*window),
	}

	// Cleanup goroutine to prevent memory leak from one-off keys
	go mc.cleanupLoop()

	return mc
}

func (mc *MemoryCounter) Increment(_ context.Context, key string, windowDur time.Duration) (int64, time.Time, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	w, ok := mc.windows[key]
	if !ok || now.Sub(w.start) >= windowDur {
		w = &window{start: now, dur: windowDur}
		mc.windows[key] = w
	}

	w.count++
	return w.count, w.start, nil
}

func (mc *MemoryCounter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		mc.cleanup(time.Minute)
	}
}

// cleanup drops windows that have been closed for at least slack.
// Entries whose window is still open stay untouched no matter how long
// the operator configured it, so long windows keep their counts.
func (mc *MemoryCounter) cleanup(slack time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	for key, w := range mc.windows {
		if w.closedFor(now, slack) {
			delete(mc.windows, key)
		}
	}
}
