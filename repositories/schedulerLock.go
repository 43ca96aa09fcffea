package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"clinicdesk/database"
	"clinicdesk/scheduling"

	"github.com/google/uuid"
)

const (
	dayLockTTL        = 10 * time.Second
	dayLockAttempts   = 3
	dayLockRetryDelay = 500 * time.Millisecond
)

// RedisDayLocker serializes booking mutations per (doctor, day) with the
// shared Redis SET NX lock. The wait is bounded: callers that lose all
// attempts get a Busy error and are expected to retry.
type RedisDayLocker struct{}

func NewRedisDayLocker() *RedisDayLocker {
	return &RedisDayLocker{}
}

func (l *RedisDayLocker) Acquire(ctx context.Context, doctorID string, day time.Time) (func(), error) {
	lockKey := fmt.Sprintf("doctorday_lock:%s:%s", doctorID, scheduling.DayKey(day))
	lockValue := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < dayLockAttempts; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, dayLockTTL)
		if err == nil && locked {
			break
		}
		if i < dayLockAttempts-1 {
			select {
			case <-time.After(dayLockRetryDelay):
			case <-ctx.Done():
				return nil, scheduling.Wrap(scheduling.KindBusy, "doctor day lock wait cancelled", ctx.Err())
			}
		}
	}
	if err != nil {
		return nil, scheduling.Wrap(scheduling.KindStorageUnavailable, "doctor day lock unavailable", err)
	}
	if !locked {
		return nil, scheduling.E(scheduling.KindBusy, "doctor day is busy, retry later")
	}

	release := func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release doctor-day lock %s: %v", lockKey, err)
		}
	}
	return release, nil
}
