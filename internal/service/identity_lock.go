package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	identityCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	identityStaleThreshold = 10 * time.Minute
)

// IdentityLock serializes registrations of the same (doctor, motive, name)
// inside this process. Cross-process safety comes from the database row lock
// and unique indexes; this only keeps local contenders from burning retries.
type IdentityLock struct {
	log *logrus.Logger

	locks sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool

	cleanupInterval time.Duration
	staleThreshold  time.Duration
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix nanoseconds
}

// NewIdentityLock starts the background cleanup goroutine. Call Stop() during shutdown.
func NewIdentityLock(log *logrus.Logger) *IdentityLock {
	return newIdentityLock(log, identityCleanupInterval, identityStaleThreshold)
}

func newIdentityLock(log *logrus.Logger, interval, threshold time.Duration) *IdentityLock {
	l := &IdentityLock{
		log:             log,
		stopChan:        make(chan struct{}),
		cleanupInterval: interval,
		staleThreshold:  threshold,
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// IdentityKey builds the lock key of a registration identity
func IdentityKey(doctorID uuid.UUID, motive, normalizedName string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, motive, normalizedName)
}

// Lock blocks until the key is held and returns the matching unlock func.
func (l *IdentityLock) Lock(key string) func() {
	for {
		value, _ := l.locks.LoadOrStore(key, &mutexWithTimestamp{})
		mt := value.(*mutexWithTimestamp)
		mt.lastUsed.Store(time.Now().UnixNano())
		mt.mu.Lock()

		// The cleanup loop may have evicted this mutex between load and lock
		if current, ok := l.locks.Load(key); ok && current == value {
			return func() {
				mt.lastUsed.Store(time.Now().UnixNano())
				mt.mu.Unlock()
			}
		}
		mt.mu.Unlock()
	}
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *IdentityLock) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("IdentityLock stopped")
	}
}

func (l *IdentityLock) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupStale()
		}
	}
}

// cleanupStale removes unused mutexes; lastUsed is checked under the lock.
func (l *IdentityLock) cleanupStale() int {
	cutoff := time.Now().Add(-l.staleThreshold).UnixNano()
	var cleaned int

	l.locks.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoff {
				l.locks.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale identity locks", cleaned)
	}
	return cleaned
}
