package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit throttles authentication attempts per client IP with an
// escalating block: too many attempts in the window earns a one hour block.
// Fails open when Redis is unavailable.
func LoginRateLimit(redisClient *redis.Client, maxAttempts, windowMinutes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		blockKey := fmt.Sprintf("login_blocked:%s", clientIP)
		countKey := fmt.Sprintf("login_attempts:%s", clientIP)

		// Currently blocked?
		blocked, err := redisClient.Get(ctx, blockKey).Result()
		if err == nil && blocked == "1" {
			ttl, _ := redisClient.TTL(ctx, blockKey).Result()
			c.JSON(http.StatusForbidden, gin.H{
				"error":                 "login_temporarily_blocked",
				"message":               "Too many login attempts. Try again later.",
				"blocked_until_minutes": int(ttl.Minutes()),
			})
			c.Abort()
			return
		}

		count, err := redisClient.Incr(ctx, countKey).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			redisClient.Expire(ctx, countKey, time.Duration(windowMinutes)*time.Minute)
		}

		if count > int64(maxAttempts)*2 {
			// Repeated abuse, escalate to a 1-hour block
			_ = redisClient.Set(ctx, blockKey, "1", 1*time.Hour).Err()
			c.JSON(http.StatusForbidden, gin.H{
				"error":               "login_temporarily_blocked",
				"message":             "Too many login attempts. Your address has been blocked for 1 hour.",
				"blocked_for_minutes": 60,
			})
			c.Abort()
			return
		}

		if count > int64(maxAttempts) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":               "rate_limit_exceeded",
				"message":             "Too many login attempts. Please wait a few minutes.",
				"retry_after_minutes": windowMinutes,
				"warning":             "Further attempts will result in a 1-hour block.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
