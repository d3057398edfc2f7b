package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "lashodia/internal/log"
)

const (
	authAttempts = 5
	authWindow   = 10 * time.Minute
)

// NewAuthLimiter throttles /signup and /login per client IP.
func NewAuthLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        authAttempts,
		Expiration: authWindow,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "errors": "Too many attempts. Please try again later."})
		},
	})
}
