package handlers

import (
	"errors"
	"strconv"

	"shopdash/internal/domain"
	applog "shopdash/internal/log"
	"shopdash/internal/services"
	"shopdash/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the HTML screens. It reads through the same services
// as the JSON endpoints.
type PageHandler struct {
	CatalogSvc   *services.CatalogService
	OrderSvc     *services.OrderService
	CustomerSvc  *services.CustomerService
	SettingsSvc  *services.SettingsService
	AnalyticsSvc *services.AnalyticsService
}

func pageLinks(info services.PageInfo) fiber.Map {
	m := fiber.Map{"Page": info.Page, "TotalPages": info.TotalPages, "Limit": info.Limit}
	if info.Page > 1 {
		m["Prev"] = info.Page - 1
	}
	if info.Page < info.TotalPages {
		m["Next"] = info.Page + 1
	}
	return m
}

// GET /dashboard
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	st, err := h.AnalyticsSvc.Overview()
	if err != nil {
		applog.Error(c, "page.dashboard.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load the dashboard")
	}
	recent, err := h.OrderSvc.List("", services.NewPaging(1, 5))
	if err != nil {
		applog.Error(c, "page.dashboard.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load the dashboard")
	}
	return render(c, "dashboard", fiber.Map{"Stats": st, "Recent": recent.Orders})
}

// GET /dashboard/products
func (h *PageHandler) Products(c *fiber.Ctx) error {
	search := validate.Search(c.Query("search"))
	page, err := h.CatalogSvc.ListProducts(search, paging(c))
	if err != nil {
		applog.Error(c, "page.products.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load products")
	}
	return render(c, "products", fiber.Map{"Products": page.Products, "Search": search, "Paging": pageLinks(page.PageInfo), "Total": page.Total})
}

// GET /dashboard/orders
func (h *PageHandler) Orders(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && !domain.OrderStatus(status).Valid() {
		status = ""
	}
	page, err := h.OrderSvc.List(status, paging(c))
	if err != nil {
		applog.Error(c, "page.orders.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load orders")
	}
	return render(c, "orders", fiber.Map{
		"Orders": page.Orders, "Status": status, "Paging": pageLinks(page.PageInfo), "Total": page.Total,
		"Statuses": []domain.OrderStatus{domain.OrderPending, domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled},
	})
}

// POST /dashboard/orders/:id/status
func (h *PageHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	status := c.FormValue("status")
	if !valid || status == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing id or status")
	}
	if _, err := h.OrderSvc.UpdateStatus(id, domain.OrderStatus(status)); err != nil {
		switch {
		case services.IsValidation(err):
			return renderMessage(c, fiber.StatusBadRequest, "That status change is not allowed")
		case errors.Is(err, services.ErrNotFound):
			return renderMessage(c, fiber.StatusNotFound, "Order not found")
		case errors.Is(err, services.ErrConflict):
			return renderMessage(c, fiber.StatusConflict, "The order changed meanwhile, reload and try again")
		}
		applog.Error(c, "page.orders.status.fail", err, map[string]any{"order_id": id})
		return renderMessage(c, fiber.StatusInternalServerError, "Could not update the order")
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": id, "status": status})
	back := c.FormValue("back_status")
	if !domain.OrderStatus(back).Valid() {
		back = ""
	}
	return c.Redirect("/dashboard/orders?status=" + back + "&page=" + strconv.Itoa(validate.Page(c.FormValue("back_page"))))
}

// GET /dashboard/customers
func (h *PageHandler) Customers(c *fiber.Ctx) error {
	search := validate.Search(c.Query("search"))
	page, err := h.CustomerSvc.List(search, paging(c))
	if err != nil {
		applog.Error(c, "page.customers.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load customers")
	}
	return render(c, "customers", fiber.Map{"Customers": page.Customers, "Search": search, "Paging": pageLinks(page.PageInfo), "Total": page.Total})
}

// GET /dashboard/analytics
func (h *PageHandler) Analytics(c *fiber.Ctx) error {
	days, valid := validate.Timeframe(c.Query("timeframe"))
	if !valid {
		days = validate.DefaultTimeframe
	}
	report, err := h.AnalyticsSvc.Report(days)
	if err != nil {
		applog.Error(c, "page.analytics.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load analytics")
	}
	return render(c, "analytics", fiber.Map{"Report": report, "Timeframes": []int{7, 30, 90, 365}})
}

// GET /dashboard/settings
func (h *PageHandler) Settings(c *fiber.Ctx) error {
	grouped, err := h.SettingsSvc.Get("")
	if err != nil {
		applog.Error(c, "page.settings.fail", err, nil)
		return renderMessage(c, fiber.StatusInternalServerError, "Could not load settings")
	}
	view := make(map[string]map[string]string, len(grouped))
	for cat, kv := range grouped {
		view[cat] = make(map[string]string, len(kv))
		for k, v := range kv {
			view[cat][k] = string(v)
		}
	}
	return render(c, "settings", fiber.Map{"Settings": view})
}
