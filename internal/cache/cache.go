// Package cache provides the in-process caches the API serves hot reads
// from, with TTL expiry and LRU eviction.
package cache

import (
	"log/slog"
	"time"
)

// Cache is the read/write surface handlers use.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries in bulk.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the periodic cleanup of every registered cache.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the cleanup rotation. Call before StartCleanup.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup begins periodic cleanup of all registered caches.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := 0
			for _, cache := range m.caches {
				cleaned += cache.CleanExpired()
			}
			if cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop halts the cleanup goroutine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stopCleanup)
	if m.started {
		<-m.cleanupDone
	}
}
