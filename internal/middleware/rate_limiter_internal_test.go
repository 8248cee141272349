package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterStore_EvictsIdleCallers(t *testing.T) {
	clock := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	s := newRateLimiterStore(5)
	s.now = func() time.Time { return clock }

	s.get("ip:10.0.0.1")
	s.get("ip:10.0.0.2")
	assert.Equal(t, 2, s.size())

	clock = clock.Add(5 * time.Minute)
	busy := s.get("ip:10.0.0.2")
	assert.Equal(t, 2, s.size())

	clock = clock.Add(6 * time.Minute)
	s.get("user:7")

	// .1 was idle for 11 minutes, .2 only for 6
	assert.Equal(t, 2, s.size())
	assert.Same(t, busy, s.get("ip:10.0.0.2"))
}

func TestRateLimiterStore_KeepsBucketState(t *testing.T) {
	clock := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	s := newRateLimiterStore(1)
	s.now = func() time.Time { return clock }

	l := s.get("ip:10.0.0.1")
	assert.True(t, l.AllowN(clock, 1))
	assert.False(t, s.get("ip:10.0.0.1").AllowN(clock, 1))
}
