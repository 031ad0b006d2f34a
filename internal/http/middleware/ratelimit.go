package middleware

import (
	"net/http"
	"sync"
	"time"

	"transaction_api/internal/metrics"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// SimpleRateLimit is the in-process fixed-window limiter used when no Redis
// is configured. Counters are per caller and per process.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientInfo)
	)

	return func(c *gin.Context) {
		key := callerKey(c)
		now := time.Now()

		mu.Lock()
		ci, ok := clients[key]
		if !ok || now.Sub(ci.start) > window {
			ci = &clientInfo{start: now}
			clients[key] = ci
		}
		ci.count++
		count := ci.count
		mu.Unlock()

		if count > maxRequests {
			metrics.RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		metrics.RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
