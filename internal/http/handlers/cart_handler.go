package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	applog "lashodia/internal/log"
	"lashodia/internal/services"
	"lashodia/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type addToCartRequest struct {
	Product struct {
		ID       flexID  `json:"id"`
		Title    string  `json:"title"`
		NewPrice float64 `json:"new_price"`
		Image    string  `json:"image"`
	} `json:"product"`
	Quantity int `json:"quantity"`
}

type removeFromCartRequest struct {
	ProductID flexID `json:"productId"`
}

// POST /addtocart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	pid := int64(req.Product.ID)
	if !validate.ProductID(pid) {
		applog.Security(c, "validation.fail", map[string]any{"field": "product.id"})
		return badRequest(c, "missing product id")
	}
	qty, ok := validate.Qty(req.Quantity)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "quantity", "value": req.Quantity})
		return badRequest(c, fmt.Sprintf("quantity must be at most %d", validate.MaxQty))
	}

	cart, err := h.Cart.Add(c.UserContext(), currentUser(c), services.ProductSnapshot{
		ID:    pid,
		Title: req.Product.Title,
		Price: req.Product.NewPrice,
		Image: req.Product.Image,
	}, qty)
	if err != nil {
		return h.fail(c, "cart.add.fail", err, pid)
	}
	applog.Info(c, "cart.add", map[string]any{"product": pid, "qty": qty})
	return c.JSON(fiber.Map{"success": true, "message": "Product added to cart", "cartData": cart})
}

// POST /removefromcart
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var req removeFromCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	pid := int64(req.ProductID)

	cart, err := h.Cart.Remove(c.UserContext(), currentUser(c), pid)
	if err != nil {
		return h.fail(c, "cart.remove.fail", err, pid)
	}
	applog.Info(c, "cart.remove", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"success": true, "message": "Product removed from cart", "cartData": cart})
}

// GET /getcartdata
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cart, err := h.Cart.Items(c.UserContext(), currentUser(c))
	if err != nil {
		return h.fail(c, "cart.get.fail", err, 0)
	}
	return c.JSON(cart)
}

func (h *CartHandler) fail(c *fiber.Ctx, action string, err error, pid int64) error {
	if errors.Is(err, services.ErrUserNotFound) {
		applog.Security(c, action, map[string]any{"product": pid, "reason": "user_not_found"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}
	applog.Error(c, action, err, map[string]any{"product": pid})
	return serverError(c)
}
