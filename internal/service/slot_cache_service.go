package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-appointment-api/internal/scheduling"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for the per doctor+date slot listing
	slotCacheKeyPrefix = "slots:"

	// Short TTL: the enumeration read path tolerates brief staleness;
	// the admission commit path never reads this cache.
	slotCacheTTL = 30 * time.Second
)

// SlotCacheService is a read-through Redis cache for the available-slots
// listing. A stale entry can momentarily show a slot as open after it
// was taken; the booking commit re-checks against the database, so the
// worst case is a rejected booking attempt.
type SlotCacheService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotCacheService(redisClient *redis.Client, log *logrus.Logger) *SlotCacheService {
	return &SlotCacheService{
		redisClient: redisClient,
		log:         log,
	}
}

func slotCacheKey(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("%s%s:%s", slotCacheKeyPrefix, doctorID.String(), date)
}

// Get returns the cached slot listing, or (nil, false) on a miss.
// Redis failures are logged and treated as misses.
func (s *SlotCacheService) Get(ctx context.Context, doctorID uuid.UUID, date string) ([]scheduling.TimeSlot, bool) {
	payload, err := s.redisClient.Get(ctx, slotCacheKey(doctorID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to read slot cache for doctor %s on %s: %+v", doctorID, date, err)
		}
		return nil, false
	}

	var slots []scheduling.TimeSlot
	if err := json.Unmarshal(payload, &slots); err != nil {
		s.log.Warnf("Corrupt slot cache entry for doctor %s on %s: %+v", doctorID, date, err)
		return nil, false
	}
	return slots, true
}

// Set stores the slot listing with a short TTL. Failures are non-fatal.
func (s *SlotCacheService) Set(ctx context.Context, doctorID uuid.UUID, date string, slots []scheduling.TimeSlot) {
	payload, err := json.Marshal(slots)
	if err != nil {
		s.log.Warnf("Failed to marshal slot cache for doctor %s on %s: %+v", doctorID, date, err)
		return
	}

	if err := s.redisClient.Set(ctx, slotCacheKey(doctorID, date), payload, slotCacheTTL).Err(); err != nil {
		s.log.Warnf("Failed to write slot cache for doctor %s on %s: %+v", doctorID, date, err)
	}
}

// Invalidate drops the cached listing after a write that changed slot
// occupancy (new booking, status change, delete).
func (s *SlotCacheService) Invalidate(ctx context.Context, doctorID uuid.UUID, date string) {
	if err := s.redisClient.Del(ctx, slotCacheKey(doctorID, date)).Err(); err != nil {
		s.log.Warnf("Failed to invalidate slot cache for doctor %s on %s: %+v", doctorID, date, err)
	}
}
