package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter applies a per-client-IP rate limit, e.g. "100-M" for 100
// requests per minute. An empty rate disables limiting.
func RateLimiter(rateStr string) gin.HandlerFunc {
	if rateStr == "" {
		return func(c *gin.Context) { c.Next() }
	}
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		panic("invalid rate limit format: " + rateStr)
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(c *gin.Context) {
		limiterCtx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if limiterCtx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
