package quota

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memStore struct {
	kv      map[string]string
	failing bool
}

func newMemStore() *memStore {
	return &memStore{kv: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, error) {
	if s.failing {
		return "", assert.AnError
	}
	return s.kv[key], nil
}

func (s *memStore) Set(key, value string) error {
	if s.failing {
		return assert.AnError
	}
	s.kv[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	if s.failing {
		return assert.AnError
	}
	delete(s.kv, key)
	return nil
}

func (s *memStore) Close() error { return nil }

func limiterAt(store Store, day string) *RateLimiter {
	l := NewRateLimiter(store)
	l.now = func() time.Time {
		t, _ := time.Parse("2006-01-02", day)
		return t
	}
	return l
}

func TestRateLimiter_Status(t *testing.T) {
	tests := []struct {
		name     string
		counter  string
		seed     map[string]string
		expected func(*testing.T, *memStore, *RateLimiter)
	}{
		{
			name:    "Fresh store starts at zero",
			counter: CounterMessage,
			expected: func(t *testing.T, store *memStore, l *RateLimiter) {
				status := l.Status(CounterMessage)
				assert.Equal(t, 0, status.Count)
				assert.Equal(t, DailyMessageLimit, status.Limit)
				assert.Equal(t, DailyMessageLimit, status.Remaining)
				assert.True(t, status.CanProceed)
			},
		},
		{
			name:    "Stale reset date resets and persists before returning",
			counter: CounterMessage,
			seed: map[string]string{
				countKey(CounterMessage): "7",
				resetKey(CounterMessage): "2025-06-14",
			},
			expected: func(t *testing.T, store *memStore, l *RateLimiter) {
				status := l.Status(CounterMessage)
				assert.Equal(t, 0, status.Count)
				assert.True(t, status.CanProceed)

				assert.Equal(t, "2025-06-15", store.kv[resetKey(CounterMessage)])
				assert.Equal(t, "0", store.kv[countKey(CounterMessage)])
			},
		},
		{
			name:    "One below the limit still proceeds",
			counter: CounterMessage,
			seed: map[string]string{
				countKey(CounterMessage): "9",
				resetKey(CounterMessage): "2025-06-15",
			},
			expected: func(t *testing.T, store *memStore, l *RateLimiter) {
				status := l.Status(CounterMessage)
				assert.Equal(t, 9, status.Count)
				assert.Equal(t, 1, status.Remaining)
				assert.True(t, status.CanProceed)
			},
		},
		{
			name:    "At the limit blocks",
			counter: CounterMessage,
			seed: map[string]string{
				countKey(CounterMessage): strconv.Itoa(DailyMessageLimit),
				resetKey(CounterMessage): "2025-06-15",
			},
			expected: func(t *testing.T, store *memStore, l *RateLimiter) {
				status := l.Status(CounterMessage)
				assert.Equal(t, 0, status.Remaining)
				assert.False(t, status.CanProceed)
			},
		},
		{
			name:    "Refresh counter limit is one",
			counter: CounterChallengeRefresh,
			seed: map[string]string{
				countKey(CounterChallengeRefresh): "1",
				resetKey(CounterChallengeRefresh): "2025-06-15",
			},
			expected: func(t *testing.T, store *memStore, l *RateLimiter) {
				status := l.Status(CounterChallengeRefresh)
				assert.Equal(t, DailyChallengeRefreshLimit, status.Limit)
				assert.False(t, status.CanProceed)
			},
		},
		{
			name:    "Unknown counter never proceeds",
			counter: "nonsense",
			expected: func(t *testing.T, store *memStore, l *RateLimiter) {
				status := l.Status("nonsense")
				assert.False(t, status.CanProceed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			for k, v := range tt.seed {
				store.kv[k] = v
			}

			l := limiterAt(store, "2025-06-15")
			tt.expected(t, store, l)
		})
	}
}

func TestRateLimiter_StoreFailureDegradesSafely(t *testing.T) {
	store := newMemStore()
	store.failing = true

	l := limiterAt(store, "2025-06-15")

	status := l.Status(CounterMessage)
	assert.False(t, status.CanProceed)
	assert.Equal(t, DailyMessageLimit, status.Limit)

	err := l.Increment(CounterMessage)
	assert.Error(t, err)
}

func TestRateLimiter_Increment(t *testing.T) {
	store := newMemStore()
	l := limiterAt(store, "2025-06-15")

	for i := 0; i < DailyMessageLimit; i++ {
		assert.True(t, l.Status(CounterMessage).CanProceed)
		assert.NoError(t, l.Increment(CounterMessage))
	}

	status := l.Status(CounterMessage)
	assert.Equal(t, DailyMessageLimit, status.Count)
	assert.False(t, status.CanProceed)

	assert.Equal(t, strconv.Itoa(DailyMessageLimit), store.kv[countKey(CounterMessage)])
}

func TestRateLimiter_RolloverAcrossDays(t *testing.T) {
	store := newMemStore()

	l := limiterAt(store, "2025-06-15")
	assert.NoError(t, l.Increment(CounterChallengeRefresh))
	assert.False(t, l.Status(CounterChallengeRefresh).CanProceed)

	// Same store, next day: the counter resets on first read.
	next := limiterAt(store, "2025-06-16")
	status := next.Status(CounterChallengeRefresh)
	assert.Equal(t, 0, status.Count)
	assert.True(t, status.CanProceed)
}

func TestRefreshFlag(t *testing.T) {
	store := newMemStore()

	refreshed, err := ConsumeRefreshFlag(store)
	assert.NoError(t, err)
	assert.False(t, refreshed)

	assert.NoError(t, SetRefreshFlag(store))

	refreshed, err = ConsumeRefreshFlag(store)
	assert.NoError(t, err)
	assert.True(t, refreshed)

	// Consuming clears the flag.
	refreshed, err = ConsumeRefreshFlag(store)
	assert.NoError(t, err)
	assert.False(t, refreshed)
}
