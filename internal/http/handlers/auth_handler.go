package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lashodia/internal/log"
	"lashodia/internal/services"
	"lashodia/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	name, ok := validate.Name(req.Username)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "username"})
		return badRequest(c, "Username must be 1-50 letters, digits or spaces")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "email"})
		return badRequest(c, "Enter a valid email address")
	}
	if !validate.Password(req.Password) {
		log.Security(c, "validation.fail", map[string]any{"field": "password"})
		return badRequest(c, "Password must be 8-72 characters")
	}

	token, err := h.Auth.Signup(c.UserContext(), name, email, req.Password)
	if errors.Is(err, services.ErrDuplicateEmail) {
		log.Security(c, "auth.signup.fail", map[string]any{"email": email, "reason": "duplicate"})
		return badRequest(c, "Existing user found with same email address")
	}
	if err != nil {
		log.Error(c, "auth.signup.error", err, map[string]any{"email": email})
		return serverError(c)
	}
	log.Audit(c, "auth.signup.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// POST /login
//
// Failed logins answer 401 with {success:false, errors}, not 200: an unknown
// email and a wrong password carry distinct messages. Clients should read the
// body on 401 as well as on 200.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "errors": "Wrong Email / There is no user with this email"})
	}

	token, err := h.Auth.Login(c.UserContext(), email, req.Password)
	switch {
	case errors.Is(err, services.ErrUnknownEmail):
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "unknown_email"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "errors": "Wrong Email / There is no user with this email"})
	case errors.Is(err, services.ErrWrongPassword):
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "wrong_password"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "errors": "Wrong Password"})
	case err != nil:
		log.Error(c, "auth.login.error", err, map[string]any{"email": email})
		return serverError(c)
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"success": true, "token": token})
}
