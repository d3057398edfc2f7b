package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "lashodia/internal/log"
	"lashodia/internal/services"
)

// UploadField is the multipart field the image is sent in. It also prefixes
// stored object names.
const UploadField = "product"

type UploadHandler struct {
	Uploads *services.UploadService
}

// POST /upload
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile(UploadField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": 0, "error": "No file uploaded"})
	}
	f, err := fh.Open()
	if err != nil {
		applog.Error(c, "upload.open.fail", err, map[string]any{"file": fh.Filename})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": 0, "error": "Unable to upload the image."})
	}
	defer f.Close()

	u, err := h.Uploads.Upload(c.UserContext(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		applog.Error(c, "upload.fail", err, map[string]any{"file": fh.Filename, "size": fh.Size})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": 0, "error": "Unable to upload the image."})
	}
	applog.Audit(c, "upload.success", map[string]any{"file": fh.Filename, "size": fh.Size, "url": u})
	return c.JSON(fiber.Map{"success": 1, "image_url": u})
}
