package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitConfigs(t *testing.T) {
	for _, endpoint := range []string{"login", "register", "progress", "certificate"} {
		cfg, ok := GetRateLimitConfig(endpoint)
		require.True(t, ok, endpoint)
		assert.Equal(t, endpoint, cfg.EndpointType)
		assert.Positive(t, cfg.MaxRequests)
		assert.Positive(t, cfg.WindowSize)
	}

	_, ok := GetRateLimitConfig("unknown")
	assert.False(t, ok)
}

func TestRateLimitRejectsAfterBudget(t *testing.T) {
	cfg, _ := GetRateLimitConfig("register")

	app := fiber.New()
	app.Post("/register", RateLimit("register"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusCreated)
	})

	for i := 0; i < cfg.MaxRequests; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/register", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/register", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimitUnknownEndpointPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Get("/open", RateLimit("unknown"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 20; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/open", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
