package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Maximum manual run triggers and disk imports per user per day. These kick
// off real backup work on the engine, so a runaway client should not be able
// to queue hundreds of them.
const maxTriggersPerDay = 50

// TriggerRateLimit caps the number of manual run triggers per admin per day.
// The counter resets at midnight for predictable behavior.
func TriggerRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		if !isTriggerEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		userIDInterface, exists := c.Get("userID")
		if !exists {
			c.Next()
			return
		}

		userID, ok := userIDInterface.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		today := time.Now().Format("2006-01-02")
		key := fmt.Sprintf("trigger_limit:%s:%s", userID.String(), today)

		count, err := redisClient.Get(ctx, key).Int()
		if err == redis.Nil {
			now := time.Now()
			midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
			if err := redisClient.Set(ctx, key, 1, midnight.Sub(now)).Err(); err != nil {
				c.Next()
				return
			}
		} else if err != nil {
			// Redis error, fail open
			c.Next()
			return
		} else if count >= maxTriggersPerDay {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":                "trigger_rate_limit_exceeded",
				"message":              "Too many manual runs today. Please try again tomorrow.",
				"retry_after_hours":    int(ttl.Hours()),
				"triggers_today":       count,
				"max_triggers_per_day": maxTriggersPerDay,
			})
			c.Abort()
			return
		} else {
			redisClient.Incr(ctx, key)
		}

		c.Next()
	}
}

func isTriggerEndpoint(path string) bool {
	if path == "/api/v1/backups/from-disk" {
		return true
	}
	return strings.HasPrefix(path, "/api/v1/jobs/") && strings.HasSuffix(path, "/run")
}
