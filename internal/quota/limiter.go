package quota

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"drawit_backend/internal/model"
	"drawit_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	CounterMessage          = "daily_message"
	CounterChallengeRefresh = "daily_challenge_refresh"

	DailyMessageLimit          = 10
	DailyChallengeRefreshLimit = 1

	dayCheckInterval = time.Minute
)

// RateLimiter enforces the fixed per-day action quotas against the local
// store. Counters reset implicitly when their last-reset-date is not the
// current calendar day.
type RateLimiter struct {
	store  Store
	limits map[string]int

	mu     sync.Mutex
	counts map[string]int

	now func() time.Time
}

func NewRateLimiter(store Store) *RateLimiter {
	return &RateLimiter{
		store: store,
		limits: map[string]int{
			CounterMessage:          DailyMessageLimit,
			CounterChallengeRefresh: DailyChallengeRefreshLimit,
		},
		counts: make(map[string]int),
		now:    time.Now,
	}
}

func (l *RateLimiter) today() string {
	return l.now().Format("2006-01-02")
}

func countKey(counter string) string {
	return counter + "_count"
}

func resetKey(counter string) string {
	return counter + "_last_reset_date"
}

// Status reads the counter, resetting it first when the stored reset date
// is stale. It never returns an error: a failed store read degrades to a
// conservative "cannot proceed".
func (l *RateLimiter) Status(counter string) model.QuotaStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit, ok := l.limits[counter]
	if !ok {
		logger.Logger().Error("unknown quota counter", zap.String("counter", counter))
		return model.QuotaStatus{Limit: 0, CanProceed: false}
	}

	count, err := l.loadLocked(counter)
	if err != nil {
		logger.Logger().Error("failed to read quota counter",
			zap.String("counter", counter), zap.Error(err))
		return model.QuotaStatus{Limit: limit, CanProceed: false}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return model.QuotaStatus{
		Count:      count,
		Limit:      limit,
		Remaining:  remaining,
		CanProceed: count < limit,
	}
}

// Increment bumps the counter by one. Concurrent increments are serialized
// by the limiter's own lock; there is no cross-process coordination
// (single-install assumption).
func (l *RateLimiter) Increment(counter string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.limits[counter]; !ok {
		return fmt.Errorf("unknown quota counter: %s", counter)
	}

	count, err := l.loadLocked(counter)
	if err != nil {
		return fmt.Errorf("failed to read quota counter %s: %w", counter, err)
	}

	newCount := count + 1
	if err := l.store.Set(countKey(counter), strconv.Itoa(newCount)); err != nil {
		return fmt.Errorf("failed to persist quota counter %s: %w", counter, err)
	}
	l.counts[counter] = newCount

	return nil
}

// loadLocked returns today's count, persisting a reset first when the
// stored reset date is not today. Callers hold l.mu.
func (l *RateLimiter) loadLocked(counter string) (int, error) {
	today := l.today()

	lastReset, err := l.store.Get(resetKey(counter))
	if err != nil {
		return 0, err
	}

	if lastReset != today {
		if err := l.store.Set(resetKey(counter), today); err != nil {
			return 0, err
		}
		if err := l.store.Set(countKey(counter), "0"); err != nil {
			return 0, err
		}
		l.counts[counter] = 0
		return 0, nil
	}

	stored, err := l.store.Get(countKey(counter))
	if err != nil {
		return 0, err
	}

	count := 0
	if stored != "" {
		count, err = strconv.Atoi(stored)
		if err != nil {
			return 0, fmt.Errorf("corrupt quota counter %s: %w", counter, err)
		}
	}
	l.counts[counter] = count

	return count, nil
}

// WatchDayRollover resets stale counters once at startup and then on a
// one-minute ticker, until ctx is cancelled.
func (l *RateLimiter) WatchDayRollover(ctx context.Context) {
	check := func() {
		for counter := range l.limits {
			l.Status(counter)
		}
	}

	check()

	ticker := time.NewTicker(dayCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
