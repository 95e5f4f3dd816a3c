package handlers

import (
	"errors"
	"strconv"

	"shopdash/internal/auth"
	applog "shopdash/internal/log"
	"shopdash/internal/services"
	"shopdash/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// CSRFCookie is the double-submit cookie the page group's csrf middleware
// issues.
const CSRFCookie = "csrf_"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if id, ok := c.Locals(identityKey).(*Identity); ok {
		data["Identity"] = id
	}
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies(CSRFCookie)
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func renderMessage(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg})
}

// ok writes the success envelope.
func ok(c *fiber.Ctx, status int, data any) error {
	body := fiber.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// fail writes the error envelope.
func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

// serviceError maps a service error to the envelope. Anything unexpected
// is logged under action and answered with a generic 500.
func serviceError(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"field": ve.Field, "action": action})
		return fail(c, fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrConflict):
		return fail(c, fiber.StatusConflict, "Already exists")
	case errors.Is(err, services.ErrBadCreds):
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, "Invalid authentication token")
	}
	applog.Error(c, action, err, fields)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

func paging(c *fiber.Ctx) services.Paging {
	return services.NewPaging(validate.Page(c.Query("page")), validate.Limit(c.Query("limit")))
}

// pathID parses the :id route param; ok is false after a 400 was written.
func pathID(c *fiber.Ctx) (int64, bool, error) {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return 0, false, fail(c, fiber.StatusBadRequest, "id must be a positive integer")
	}
	return id, true, nil
}

func badJSON(c *fiber.Ctx) error {
	applog.Security(c, "validation.fail", map[string]any{"field": "body"})
	return fail(c, fiber.StatusBadRequest, "Malformed JSON body")
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
