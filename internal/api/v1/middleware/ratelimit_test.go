package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/flayve23/flayve-oficial/pkg/authtoken"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupRateLimitApp(t *testing.T, client *redis.Client, limit int, window time.Duration) *fiber.App {
	app := fiber.New()
	app.Get("/poll",
		func(c *fiber.Ctx) error {
			c.Locals(identityKey, authtoken.Identity{UserID: 42, Role: "streamer"})
			return c.Next()
		},
		RateLimit(client, limit, window, zap.NewNop()),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	return app
}

func TestRateLimit(t *testing.T) {
	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		app := setupRateLimitApp(t, client, 3, time.Minute)

		for i := 0; i < 3; i++ {
			resp, err := app.Test(httptest.NewRequest("GET", "/poll", nil))
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}

		resp, err := app.Test(httptest.NewRequest("GET", "/poll", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	})

	t.Run("arms a window TTL on the counter", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		app := setupRateLimitApp(t, client, 3, time.Minute)

		_, err := app.Test(httptest.NewRequest("GET", "/poll", nil))
		assert.NoError(t, err)

		assert.Equal(t, time.Minute, mr.TTL("ratelimit:42:/poll"))
	})

	t.Run("re-arms a counter that lost its TTL", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		app := setupRateLimitApp(t, client, 3, time.Minute)

		// A counter without a TTL would otherwise limit the caller forever.
		assert.NoError(t, mr.Set("ratelimit:42:/poll", "2"))

		resp, err := app.Test(httptest.NewRequest("GET", "/poll", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, time.Minute, mr.TTL("ratelimit:42:/poll"))
	})

	t.Run("counter decays when the window elapses", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		app := setupRateLimitApp(t, client, 1, time.Minute)

		resp, err := app.Test(httptest.NewRequest("GET", "/poll", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/poll", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

		mr.FastForward(2 * time.Minute)

		resp, err = app.Test(httptest.NewRequest("GET", "/poll", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("fails open when redis is unavailable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		app := setupRateLimitApp(t, client, 1, time.Minute)
		mr.Close()

		for i := 0; i < 3; i++ {
			// The first request waits out go-redis's dial retries, which can
			// exceed app.Test's default 1s timeout.
			resp, err := app.Test(httptest.NewRequest("GET", "/poll", nil), 10000)
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}
	})

	t.Run("passes through without a client", func(t *testing.T) {
		app := setupRateLimitApp(t, nil, 1, time.Minute)

		for i := 0; i < 3; i++ {
			resp, err := app.Test(httptest.NewRequest("GET", "/poll", nil))
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}
	})
}
