package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	rateLimitWindow = time.Minute
	rateLimitMax    = 120
)

// RateLimit returns a fixed-window per-IP rate limiter backed by Redis.
func RateLimit(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("recon:ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(rateLimitWindow.Seconds()))

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, rateLimitWindow)
		}
		if count > rateLimitMax {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": false, "message": "too many requests"})
			return
		}
		c.Next()
	}
}
