package handlers

import (
	"errors"
	"strings"
	"time"

	"shopdash/internal/auth"
	"shopdash/internal/domain"
	applog "shopdash/internal/log"
	"shopdash/internal/services"
	"shopdash/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
	// Secure marks the auth cookie HTTPS-only.
	Secure bool
}

type loginBody struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Auth.Tokens.TTL() / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.Secure,
	})
}

func clearAuthCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   secure,
	})
}

func userSummary(u *domain.User) fiber.Map {
	return fiber.Map{"id": u.ID, "email": u.Email, "role": u.Role, "name": u.Name()}
}

// POST /api/auth/login
func (h *AuthHandler) APILogin(c *fiber.Ctx) error {
	var in loginBody
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "missing_fields"})
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	u, token, err := h.Auth.Login(email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.login.fail", map[string]any{"email": email})
			return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return serviceError(c, "auth.login.error", err, map[string]any{"email": email})
	}
	h.setAuthCookie(c, token)
	c.Locals(applog.UserIDKey, formatID(u.ID))
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email, "role": string(u.Role)})
	return ok(c, fiber.StatusOK, userSummary(u))
}

// POST /api/auth/logout
func (h *AuthHandler) APILogout(c *fiber.Ctx) error {
	clearAuthCookie(c, h.Secure)
	applog.Audit(c, "auth.logout", nil)
	return ok(c, fiber.StatusOK, nil)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	raw := tokenFrom(c)
	if raw == "" {
		return fail(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	u, err := h.Auth.Me(raw)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, "Invalid authentication token")
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusUnauthorized, "User not found")
	case err != nil:
		return serviceError(c, "auth.me.fail", err, nil)
	}
	return ok(c, fiber.StatusOK, u)
}

// GET /auth/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": "", "From": validate.LocalPath(c.Query("from"), "")})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	from := validate.LocalPath(c.FormValue("from"), "/dashboard")
	retry := func() error {
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Err": "Invalid email or password", "CSRFToken": c.Cookies(CSRFCookie), "From": from, "Email": email,
		})
	}
	if _, valid := validate.Email(email); !valid || pass == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return retry()
	}

	u, token, err := h.Auth.Login(email, pass)
	if err != nil {
		if !errors.Is(err, services.ErrBadCreds) {
			applog.Error(c, "auth.login.error", err, map[string]any{"email": email})
		}
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return retry()
	}
	h.setAuthCookie(c, token)
	c.Locals(applog.UserIDKey, formatID(u.ID))
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email, "role": string(u.Role)})
	return c.Redirect(from)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearAuthCookie(c, h.Secure)
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/auth/login")
}
