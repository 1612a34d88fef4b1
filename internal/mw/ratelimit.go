package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientRateLimiter stores a token bucket per client key. Students hammering
// the queue-position endpoint share one bucket per device IP.
type clientRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	r       rate.Limit
	b       int
}

func newClientRateLimiter(r rate.Limit, b int) *clientRateLimiter {
	return &clientRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

func (l *clientRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.buckets[key]
	if !ok {
		lim = rate.NewLimiter(l.r, l.b)
		l.buckets[key] = lim
	}
	return lim
}

// RateLimiter is a middleware for per-IP rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newClientRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
