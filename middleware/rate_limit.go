package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/startinfo/academy_api/shared"
)

// RateLimitConfig describes the budget of one endpoint type.
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
}

var defaultRateLimits = map[string]RateLimitConfig{
	"login": {
		EndpointType: "login",
		MaxRequests:  10,
		WindowSize:   15 * time.Minute,
		Description:  "Login attempts rate limit",
	},
	"register": {
		EndpointType: "register",
		MaxRequests:  5,
		WindowSize:   15 * time.Minute,
		Description:  "Registration rate limit",
	},
	"progress": {
		EndpointType: "progress",
		MaxRequests:  120,
		WindowSize:   time.Minute,
		Description:  "Lesson progress updates rate limit",
	},
	"certificate": {
		EndpointType: "certificate",
		MaxRequests:  10,
		WindowSize:   time.Minute,
		Description:  "Certificate issuance rate limit",
	},
}

func GetRateLimitConfig(endpointType string) (RateLimitConfig, bool) {
	cfg, ok := defaultRateLimits[endpointType]
	return cfg, ok
}

// RateLimit limits requests per authenticated user, or per client IP on
// public routes. Unknown endpoint types are not limited.
func RateLimit(endpointType string) fiber.Handler {
	cfg, ok := defaultRateLimits[endpointType]
	if !ok {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return limiter.New(limiter.Config{
		Max:        cfg.MaxRequests,
		Expiration: cfg.WindowSize,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID := UserIDFrom(c); userID != "" {
				return cfg.EndpointType + ":user:" + userID
			}
			return cfg.EndpointType + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too many requests", fiber.Map{
				"endpoint": cfg.EndpointType,
				"limit":    cfg.MaxRequests,
				"window":   cfg.WindowSize.String(),
			})
		},
	})
}
