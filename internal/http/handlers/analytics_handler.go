package handlers

import (
	applog "shopdash/internal/log"
	"shopdash/internal/services"
	"shopdash/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
}

// GET /api/dashboard/analytics?timeframe=<days>
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	days, valid := validate.Timeframe(c.Query("timeframe"))
	if !valid {
		applog.Security(c, "validation.fail", map[string]any{"field": "timeframe"})
		return fail(c, fiber.StatusBadRequest, "timeframe must be a number of days between 1 and 365")
	}
	report, err := h.Analytics.Report(days)
	if err != nil {
		return serviceError(c, "analytics.report.fail", err, map[string]any{"timeframe": days})
	}
	return ok(c, fiber.StatusOK, report)
}

// GET /api/dashboard/stats
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Analytics.Overview()
	if err != nil {
		return serviceError(c, "stats.fail", err, nil)
	}
	return ok(c, fiber.StatusOK, st)
}
