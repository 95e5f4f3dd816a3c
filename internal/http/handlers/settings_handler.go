package handlers

import (
	"encoding/json"

	applog "shopdash/internal/log"
	"shopdash/internal/services"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

// GET /api/dashboard/settings[?category=]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	grouped, err := h.Settings.Get(c.Query("category"))
	if err != nil {
		return serviceError(c, "settings.get.fail", err, nil)
	}
	return ok(c, fiber.StatusOK, grouped)
}

// PUT /api/dashboard/settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in struct {
		Category string                     `json:"category"`
		Settings map[string]json.RawMessage `json:"settings"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	if in.Category == "" || len(in.Settings) == 0 {
		return fail(c, fiber.StatusBadRequest, "category and settings are required")
	}
	if err := h.Settings.Update(in.Category, in.Settings); err != nil {
		return serviceError(c, "settings.update.fail", err, map[string]any{"category": in.Category})
	}
	keys := make([]string, 0, len(in.Settings))
	for k := range in.Settings {
		keys = append(keys, k)
	}
	applog.Audit(c, "settings.update", map[string]any{"category": in.Category, "keys": keys})
	return ok(c, fiber.StatusOK, nil)
}
