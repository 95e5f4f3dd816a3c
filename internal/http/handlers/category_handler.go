package handlers

import (
	"shopdash/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/dashboard/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return serviceError(c, "categories.list.fail", err, nil)
	}
	return ok(c, fiber.StatusOK, cats)
}
