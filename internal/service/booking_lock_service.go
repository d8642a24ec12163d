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
	lockCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	lockStaleThreshold = 10 * time.Minute
)

// BookingLockService serializes booking admissions per (doctor, date).
//
// The admission controller reads slot occupancy and the daily count and
// then inserts; without serialization two requests for the same doctor
// and date could both pass the checks. One mutex per doctor+date keeps
// unrelated bookings fully concurrent.
//
// Lock Ordering (to prevent deadlocks):
// 1. Acquire the doctor+date mutex FIRST
// 2. Then open the database transaction
type BookingLockService struct {
	log *logrus.Logger

	// Per doctor+date mutex
	slotMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewBookingLockService creates a new BookingLockService.
// Starts background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewBookingLockService(log *logrus.Logger) *BookingLockService {
	svc := &BookingLockService{
		log:      log,
		stopChan: make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *BookingLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("BookingLockService stopped")
	}
}

// Lock acquires the mutex for a doctor+date pair and returns its unlock
// function.
func (s *BookingLockService) Lock(doctorID uuid.UUID, date string) func() {
	mt := s.getSlotMutex(lockKey(doctorID, date))
	mt.mu.Lock()
	return mt.mu.Unlock
}

func lockKey(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("%s|%s", doctorID.String(), date)
}

// getSlotMutex returns the mutex for a specific doctor+date key
func (s *BookingLockService) getSlotMutex(key string) *mutexWithTimestamp {
	mt, _ := s.slotMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *BookingLockService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Booking lock cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety.
// The lastUsed check happens inside the lock so a concurrent Lock cannot
// slip between the check and the delete.
func (s *BookingLockService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-lockStaleThreshold).Unix()
	var cleaned int

	s.slotMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.slotMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale booking locks", cleaned)
	}
}
