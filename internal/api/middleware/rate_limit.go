package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/cache"
	"github.com/yoockh/hirex/internal/utils"
)

// RateLimit allows `limit` requests per client IP per window. Counter errors fail open.
func RateLimit(counter cache.Counter, name string, limit int, window time.Duration, l logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket := time.Now().Unix() / int64(window.Seconds())
		key := "ratelimit:" + name + ":" + c.ClientIP() + ":" + strconv.FormatInt(bucket, 10)

		n, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			l.WithError(err).WithField("limiter", name).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		remaining := int64(limit) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiError{
				Code:    utils.CodeRateLimited,
				Message: "rate limit exceeded, please try again later",
			})
			return
		}
		c.Next()
	}
}
