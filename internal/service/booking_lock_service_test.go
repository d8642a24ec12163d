package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestLockService(t *testing.T) *BookingLockService {
	t.Helper()
	log := logrus.New()
	svc := NewBookingLockService(log)
	t.Cleanup(svc.Stop)
	return svc
}

func TestBookingLockService_SerializesSameKey(t *testing.T) {
	svc := newTestLockService(t)
	doctorID := uuid.New()

	const workers = 50
	var counter int
	var wg sync.WaitGroup

	// Unsynchronized read-modify-write on counter; only the doctor+date
	// lock makes this safe.
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := svc.Lock(doctorID, "2024-01-01")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestBookingLockService_DifferentKeysDoNotBlock(t *testing.T) {
	svc := newTestLockService(t)
	doctorID := uuid.New()

	// Hold the lock for one date; a different date must stay acquirable.
	unlock := svc.Lock(doctorID, "2024-01-01")
	defer unlock()

	acquired := make(chan struct{})
	go func() {
		otherUnlock := svc.Lock(doctorID, "2024-01-02")
		otherUnlock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("lock for a different date blocked behind an unrelated holder")
	}
}

func TestBookingLockService_SameKeyBlocksUntilUnlock(t *testing.T) {
	svc := newTestLockService(t)
	doctorID := uuid.New()

	unlock := svc.Lock(doctorID, "2024-01-01")

	acquired := make(chan struct{})
	go func() {
		second := svc.Lock(doctorID, "2024-01-01")
		second()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock not acquired after unlock")
	}
}

func TestBookingLockService_StopIsIdempotent(t *testing.T) {
	log := logrus.New()
	svc := NewBookingLockService(log)

	svc.Stop()
	svc.Stop()
}
