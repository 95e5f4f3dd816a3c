package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"shopdash/internal/domain"
	applog "shopdash/internal/log"
	"shopdash/internal/services"
	"shopdash/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/dashboard/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	search := validate.Search(c.Query("search"))
	page, err := h.Catalog.ListProducts(search, paging(c))
	if err != nil {
		return serviceError(c, "products.list.fail", err, map[string]any{"search": search})
	}
	return ok(c, fiber.StatusOK, page)
}

// GET /api/dashboard/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, valid, err := pathID(c)
	if !valid {
		return err
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return serviceError(c, "products.get.fail", err, map[string]any{"product_id": id})
	}
	return ok(c, fiber.StatusOK, p)
}

// POST /api/dashboard/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	id, err := h.Catalog.CreateProduct(in)
	if err != nil {
		return serviceError(c, "products.create.fail", err, map[string]any{"name": in.Name})
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": id, "name": in.Name, "images": len(in.Images)})
	return ok(c, fiber.StatusCreated, fiber.Map{"product_id": id})
}

// PUT /api/dashboard/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, valid, err := pathID(c)
	if !valid {
		return err
	}
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	if err := h.Catalog.UpdateProduct(id, in); err != nil {
		return serviceError(c, "products.update.fail", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": id, "images": len(in.Images)})
	return ok(c, fiber.StatusOK, fiber.Map{"product_id": id})
}

// DELETE /api/dashboard/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, valid, err := pathID(c)
	if !valid {
		return err
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		if errors.Is(err, services.ErrInUse) {
			return fail(c, fiber.StatusConflict, "Product has orders")
		}
		return serviceError(c, "products.delete.fail", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{"product_id": id})
}

// GET /api/dashboard/products/export
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	n, err := h.Catalog.ExportProducts(&buf)
	if err != nil {
		return serviceError(c, "products.export.fail", err, nil)
	}
	applog.Info(c, "products.export", map[string]any{"rows": n})
	name := fmt.Sprintf("products-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}
