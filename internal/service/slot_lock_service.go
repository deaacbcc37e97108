package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseLockScript deletes the lock key only while it still holds our token,
// so an expired lock taken over by another instance is never removed.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisSlotLockKeyPrefix = "booking:lock:"

	lockRetryInterval = 25 * time.Millisecond

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// SlotLockService serialises bookings for the same dentist and clinic day.
//
// Lock Ordering (to prevent deadlocks):
// 1. Acquire the in-process mutex for the dentist/day FIRST
// 2. Then take the Redis lock shared across instances
//
// The lock only narrows the check-then-write race. When Redis is missing,
// slow or unreachable the booking proceeds without it and the
// appointments_no_overlap constraint still rejects double bookings.
type SlotLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	location    *time.Location
	ttl         time.Duration
	wait        time.Duration

	// Per-dentist-day mutex for in-process callers
	dayMu sync.Map // map[string]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// SlotLock is a held dentist/day lock. Release must be called exactly once.
type SlotLock struct {
	svc         *SlotLockService
	key         string
	token       string
	local       *mutexWithTimestamp
	distributed bool
	released    atomic.Bool
}

// NewSlotLockService creates the lock service and starts the mutex cleanup
// goroutine. Call Stop() during graceful shutdown. redisClient may be nil.
func NewSlotLockService(redisClient *redis.Client, log *logrus.Logger, location *time.Location, ttl, wait time.Duration) *SlotLockService {
	if location == nil {
		location = time.UTC
	}
	svc := &SlotLockService{
		redisClient: redisClient,
		log:         log,
		location:    location,
		ttl:         ttl,
		wait:        wait,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *SlotLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotLockService stopped")
	}
}

// LockKey returns the Redis key guarding a dentist's clinic day.
func (s *SlotLockService) LockKey(dentistID uuid.UUID, start time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisSlotLockKeyPrefix, dentistID, start.In(s.location).Format(time.DateOnly))
}

// Acquire takes the lock for the dentist's day containing start. It only
// fails when ctx ends while waiting; a Redis lock that cannot be taken within
// the configured wait is logged and skipped.
func (s *SlotLockService) Acquire(ctx context.Context, dentistID uuid.UUID, start time.Time) (*SlotLock, error) {
	key := s.LockKey(dentistID, start)

	mt := s.getDayMutex(key)
	mt.mu.Lock()

	lock := &SlotLock{svc: s, key: key, local: mt}
	if s.redisClient == nil {
		return lock, nil
	}

	token := uuid.NewString()
	deadline := time.Now().Add(s.wait)
	for {
		ok, err := s.redisClient.SetNX(ctx, key, token, s.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				mt.mu.Unlock()
				return nil, ctxErr
			}
			s.log.Warnf("Failed to take booking lock %s, continuing without it: %+v", key, err)
			return lock, nil
		}
		if ok {
			lock.token = token
			lock.distributed = true
			return lock, nil
		}
		if !time.Now().Before(deadline) {
			s.log.Warnf("Booking lock %s still held after %v, continuing without it", key, s.wait)
			return lock, nil
		}

		select {
		case <-ctx.Done():
			mt.mu.Unlock()
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

// Distributed reports whether the Redis lock is held in addition to the
// in-process mutex.
func (l *SlotLock) Distributed() bool {
	return l.distributed
}

// Release drops the Redis lock (if held) and the in-process mutex.
func (l *SlotLock) Release(ctx context.Context) {
	if !l.released.CompareAndSwap(false, true) {
		return
	}
	defer l.local.mu.Unlock()

	if !l.distributed {
		return
	}
	// The caller's context may already be done once the request has been answered.
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := releaseLockScript.Run(releaseCtx, l.svc.redisClient, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.svc.log.Warnf("Failed to release booking lock %s: %+v", l.key, err)
	}
}

// getDayMutex returns mutex for a specific dentist/day key
func (s *SlotLockService) getDayMutex(key string) *mutexWithTimestamp {
	mt, _ := s.dayMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *SlotLockService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. TryLock skips
// mutexes currently held; lastUsed is checked under the lock.
func (s *SlotLockService) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	s.dayMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffUnix {
				s.dayMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}
