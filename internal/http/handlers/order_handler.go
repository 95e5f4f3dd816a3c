package handlers

import (
	"shopdash/internal/domain"
	applog "shopdash/internal/log"
	"shopdash/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// GET /api/dashboard/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	page, err := h.Orders.List(status, paging(c))
	if err != nil {
		return serviceError(c, "orders.list.fail", err, map[string]any{"status": status})
	}
	return ok(c, fiber.StatusOK, page)
}

// GET /api/dashboard/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, valid, err := pathID(c)
	if !valid {
		return err
	}
	o, err := h.Orders.Get(id)
	if err != nil {
		return serviceError(c, "orders.get.fail", err, map[string]any{"order_id": id})
	}
	return ok(c, fiber.StatusOK, o)
}

// PATCH /api/dashboard/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, valid, err := pathID(c)
	if !valid {
		return err
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	if in.Status == "" {
		return fail(c, fiber.StatusBadRequest, "status is required")
	}
	o, err := h.Orders.UpdateStatus(id, domain.OrderStatus(in.Status))
	if err != nil {
		return serviceError(c, "orders.status.fail", err, map[string]any{"order_id": id, "status": in.Status})
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": id, "status": in.Status})
	return ok(c, fiber.StatusOK, o)
}
