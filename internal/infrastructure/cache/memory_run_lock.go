package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pos/backend/internal/application/report"
)

// MemoryRunLock implements report.RunLock in process memory. Single-instance
// deployments and tests use it instead of Redis.
type MemoryRunLock struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

// NewMemoryRunLock creates an in-memory run lock
func NewMemoryRunLock() *MemoryRunLock {
	return &MemoryRunLock{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

// Acquire takes the lock for the key unless an unexpired holder exists
func (l *MemoryRunLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

// Release frees the lock
func (l *MemoryRunLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

var _ report.RunLock = (*MemoryRunLock)(nil)
