package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lashodia/internal/domain"
	"lashodia/internal/log"
	"lashodia/internal/services"
	"lashodia/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type addProductRequest struct {
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	NewPrice    float64 `json:"new_price"`
	OldPrice    float64 `json:"old_price"`
	Available   *bool   `json:"available"`
	Description string  `json:"description"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

type removeProductRequest struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

// GET /allproducts
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		log.Error(c, "products.list.fail", err, nil)
		return serverError(c)
	}
	log.Info(c, "products.list", map[string]any{"count": len(products)})
	return c.JSON(products)
}

// POST /addproduct
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	var req addProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	title, ok := validate.Title(req.Title)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "title"})
		return badRequest(c, "title is required")
	}

	p, err := h.Catalog.Add(c.UserContext(), services.NewProduct{
		Title:       title,
		Image:       req.Image,
		Category:    req.Category,
		NewPrice:    req.NewPrice,
		OldPrice:    req.OldPrice,
		Available:   req.Available,
		Description: req.Description,
		Rating:      domain.Rating{Rate: req.Rating.Rate, Count: req.Rating.Count},
	})
	if err != nil {
		log.Error(c, "products.add.fail", err, map[string]any{"title": title})
		return serverError(c)
	}
	log.Audit(c, "products.add", map[string]any{"id": p.ID, "title": p.Title})
	return c.JSON(fiber.Map{"success": true, "title": req.Title})
}

// POST /removeproduct
func (h *ProductHandler) Remove(c *fiber.Ctx) error {
	var req removeProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.Catalog.Remove(c.UserContext(), int64(req.ID)); err != nil {
		log.Error(c, "products.remove.fail", err, map[string]any{"id": int64(req.ID)})
		return serverError(c)
	}
	log.Audit(c, "products.remove", map[string]any{"id": int64(req.ID), "name": req.Name})
	return c.JSON(fiber.Map{"success": true, "name": req.Name})
}
