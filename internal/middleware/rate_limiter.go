package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/mindbridge-api/internal/logger"
)

// limiterIdleTTL is how long a caller's bucket survives without requests.
// An idle bucket has refilled long before, so dropping it changes nothing.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds one token bucket per caller and evicts buckets
// idle for longer than idleTTL.
type rateLimiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*visitor
	perMin    int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	return &rateLimiterStore{
		limiters: make(map[string]*visitor),
		perMin:   perMinute,
		idleTTL:  limiterIdleTTL,
		now:      time.Now,
	}
}

func (s *rateLimiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idleTTL {
		s.sweep(now)
	}

	v, exists := s.limiters[key]
	if !exists {
		v = &visitor{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin),
		}
		s.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *rateLimiterStore) sweep(now time.Time) {
	for key, v := range s.limiters {
		if now.Sub(v.lastSeen) >= s.idleTTL {
			delete(s.limiters, key)
		}
	}
	s.lastSweep = now
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimitMiddleware limits requests per authenticated user, or per client
// IP for anonymous calls. A non-positive limit disables it.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	store := newRateLimiterStore(perMinute)

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, ok := c.Get(ContextUserID); ok {
			if uid, ok := id.(uint); ok {
				key = "user:" + strconv.FormatUint(uint64(uid), 10)
			}
		}

		if !store.get(key).Allow() {
			logger.FromGin(c).Warn("rate limit exceeded", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code": "rate_limited",
				"message":    "Too many requests. Try again later.",
			})
			return
		}
		c.Next()
	}
}
