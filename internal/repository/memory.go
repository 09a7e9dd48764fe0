package repository

import (
	"context"
	"sync"
	"time"
)

// maxMemoryEntries bounds the window map; expired entries are swept past it.
const maxMemoryEntries = 10000

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryLimiter is the per-process fixed-window counter used when Redis is
// not configured or unreachable.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

func (r *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok || now.After(entry.expiresAt) {
		if len(r.entries) >= maxMemoryEntries {
			r.sweep(now)
		}
		entry = &rateLimitEntry{expiresAt: now.Add(window)}
		r.entries[key] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}

func (r *MemoryLimiter) sweep(now time.Time) {
	for k, e := range r.entries {
		if now.After(e.expiresAt) {
			delete(r.entries, k)
		}
	}
}
