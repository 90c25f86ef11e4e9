package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultLockCleanupInterval = 10 * time.Minute
)

// BookingLocker serializes work on one booking inside this process.
// It complements the database row lock: concurrent requests for the same
// booking queue here instead of piling up on the connection pool.
//
// Lock ordering: acquire the booking mutex FIRST, then open the transaction.
type BookingLocker struct {
	log *logrus.Logger

	// map[uuid.UUID]*mutexWithTimestamp
	bookingMu sync.Map

	cleanupInterval time.Duration
	staleThreshold  time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix nanoseconds
}

// NewBookingLocker starts the background cleanup of idle mutexes.
// Call Stop() during graceful shutdown.
func NewBookingLocker(log *logrus.Logger, cleanupInterval time.Duration) *BookingLocker {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultLockCleanupInterval
	}
	l := &BookingLocker{
		log:             log,
		cleanupInterval: cleanupInterval,
		staleThreshold:  cleanupInterval,
		stopChan:        make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Lock blocks until the booking is free and returns the matching unlock func
func (l *BookingLocker) Lock(bookingID uuid.UUID) func() {
	mt := l.getMutex(bookingID)
	mt.mu.Lock()
	mt.lastUsed.Store(time.Now().UnixNano())
	return func() {
		mt.lastUsed.Store(time.Now().UnixNano())
		mt.mu.Unlock()
	}
}

// Forget drops the mutex of a deleted booking
func (l *BookingLocker) Forget(bookingID uuid.UUID) {
	l.bookingMu.Delete(bookingID)
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *BookingLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("BookingLocker stopped")
	}
}

func (l *BookingLocker) getMutex(bookingID uuid.UUID) *mutexWithTimestamp {
	mt, _ := l.bookingMu.LoadOrStore(bookingID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().UnixNano())
	return result
}

func (l *BookingLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Booking lock cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStale(time.Now().Add(-l.staleThreshold))
		}
	}
}

// cleanupStale removes mutexes idle since before cutoff. TryLock skips any in use;
// lastUsed is re-read under the lock so a concurrent getMutex is never lost.
func (l *BookingLocker) cleanupStale(cutoff time.Time) int {
	cutoffNanos := cutoff.UnixNano()
	var cleaned int

	l.bookingMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffNanos {
				l.bookingMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale booking mutexes", cleaned)
	}
	return cleaned
}
