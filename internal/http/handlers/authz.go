package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lashodia/internal/auth"
	applog "lashodia/internal/log"
	"lashodia/internal/services"
)

// RequireToken rejects requests without a valid token in header and stores the
// token's user id in c.Locals(log.UserKey) for the handlers behind it.
func RequireToken(svc *services.AuthService, header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := svc.UserID(c.Get(header))
		if err != nil {
			reason := "invalid"
			if errors.Is(err, auth.ErrAuthenticationRequired) {
				reason = "missing"
			}
			applog.Security(c, "auth.token.reject", map[string]any{"reason": reason})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"errors": "Please authenticate using a valid token"})
		}
		c.Locals(applog.UserKey, uid)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) string {
	uid, _ := c.Locals(applog.UserKey).(string)
	return uid
}
