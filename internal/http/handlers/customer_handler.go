package handlers

import (
	applog "shopdash/internal/log"
	"shopdash/internal/services"
	"shopdash/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	Customers *services.CustomerService
}

// GET /api/dashboard/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	search := validate.Search(c.Query("search"))
	page, err := h.Customers.List(search, paging(c))
	if err != nil {
		return serviceError(c, "customers.list.fail", err, map[string]any{"search": search})
	}
	return ok(c, fiber.StatusOK, page)
}

// POST /api/dashboard/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in services.NewCustomer
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	cust, err := h.Customers.Create(in)
	if err != nil {
		return serviceError(c, "customers.create.fail", err, map[string]any{"email": in.Email})
	}
	applog.Audit(c, "customers.create", map[string]any{"customer_id": cust.ID, "email": cust.Email})
	return ok(c, fiber.StatusCreated, cust)
}
