package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lashodia/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	CartHandler    *CartHandler
	ProductHandler *ProductHandler
	UploadHandler  *UploadHandler
	Media          *Media

	// RequireToken guards the cart routes.
	RequireToken fiber.Handler
	// AuthLimiter throttles /signup and /login when set.
	AuthLimiter fiber.Handler
}

type Services struct {
	Auth    *services.AuthService
	Cart    *services.CartService
	Catalog *services.CatalogService
	Uploads *services.UploadService
}

// NewDeps builds the handlers. tokenHeader names the request header the auth
// token is read from; mediaDir may be empty when uploads do not go to disk.
func NewDeps(svc Services, tokenHeader, mediaDir string) *Deps {
	d := &Deps{
		AuthHandler:    &AuthHandler{Auth: svc.Auth},
		CartHandler:    &CartHandler{Cart: svc.Cart},
		ProductHandler: &ProductHandler{Catalog: svc.Catalog},
		UploadHandler:  &UploadHandler{Uploads: svc.Uploads},
		RequireToken:   RequireToken(svc.Auth, tokenHeader),
	}
	if mediaDir != "" {
		d.Media = &Media{Dir: mediaDir}
	}
	return d
}
