package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit caps requests per caller per route over a fixed window. The
// counter lives in redis; when redis is unavailable the limiter fails open so
// polling keeps working during a cache outage.
func RateLimit(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil || limit <= 0 {
			return c.Next()
		}

		identity := Identity(c)
		key := fmt.Sprintf("ratelimit:%d:%s", identity.UserID, c.Route().Path)

		count, err := client.Incr(c.UserContext(), key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		// ExpireNX arms the window TTL if the key has none, so a counter whose
		// first EXPIRE was lost still decays instead of limiting forever.
		if err := client.ExpireNX(c.UserContext(), key, window).Err(); err != nil {
			logger.Warn("rate limiter expire failed", zap.Error(err))
		}

		if count > int64(limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"code":    "RATE_LIMITED",
				"message": "too many requests, slow down",
			})
		}

		return c.Next()
	}
}
