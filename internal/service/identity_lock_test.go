package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentityLock_SerializesSameKey(t *testing.T) {
	lock := NewIdentityLock(quietLogger())
	defer lock.Stop()

	key := IdentityKey(uuid.New(), "consulta", "juan")
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := lock.Lock(key)
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxInside.Load())
}

func TestIdentityLock_DistinctKeysDoNotBlock(t *testing.T) {
	lock := NewIdentityLock(quietLogger())
	defer lock.Stop()

	doctorID := uuid.New()
	unlockA := lock.Lock(IdentityKey(doctorID, "consulta", "juan"))
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := lock.Lock(IdentityKey(doctorID, "consulta", "maria"))
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different identity blocked")
	}
}

func TestIdentityLock_CleanupSkipsHeldLocks(t *testing.T) {
	lock := newIdentityLock(quietLogger(), time.Hour, 0)
	defer lock.Stop()

	unlock := lock.Lock("held")
	released := lock.Lock("released")
	released()

	time.Sleep(time.Millisecond)
	assert.Equal(t, 1, lock.cleanupStale())

	unlock()
	time.Sleep(time.Millisecond)
	assert.Equal(t, 1, lock.cleanupStale())
	assert.Equal(t, 0, lock.cleanupStale())
}

func TestIdentityLock_StopIsIdempotent(t *testing.T) {
	lock := NewIdentityLock(quietLogger())
	lock.Stop()
	lock.Stop()
}
