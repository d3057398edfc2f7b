package handlers

import "github.com/gofiber/fiber/v2"

const banner = "Lashodia API is running"

// Register mounts every route on app.
func Register(app *fiber.App, d *Deps) {
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(banner) })
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// Auth (optionally throttled)
	authMW := []fiber.Handler{}
	if d.AuthLimiter != nil {
		authMW = append(authMW, d.AuthLimiter)
	}
	app.Post("/signup", append(authMW, d.AuthHandler.Signup)...)
	app.Post("/login", append(authMW, d.AuthHandler.Login)...)

	// Cart
	app.Post("/addtocart", d.RequireToken, d.CartHandler.Add)
	app.Post("/removefromcart", d.RequireToken, d.CartHandler.Remove)
	app.Get("/getcartdata", d.RequireToken, d.CartHandler.Get)

	// Catalog
	app.Get("/allproducts", d.ProductHandler.List)
	app.Post("/addproduct", d.ProductHandler.Add)
	app.Post("/removeproduct", d.ProductHandler.Remove)

	// Uploads
	app.Post("/upload", d.UploadHandler.Upload)
	if d.Media != nil {
		app.Get("/media/*", d.Media.Serve)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Not found"})
	})
}
