package handlers

import (
	"net/url"
	"strings"

	"shopdash/internal/auth"
	"shopdash/internal/domain"
	applog "shopdash/internal/log"
	"shopdash/internal/services"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Identity is the verified caller, attached to the request by
// RequirePermission.
type Identity struct {
	UserID int64
	Role   domain.Role
}

// CurrentIdentity returns the caller attached by RequirePermission.
func CurrentIdentity(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityKey).(*Identity)
	return id, ok
}

func isAPI(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/") }

// tokenFrom reads the auth cookie, falling back to a bearer header for
// non-browser API clients.
func tokenFrom(c *fiber.Ctx) string {
	if tok := c.Cookies(auth.CookieName); tok != "" {
		return tok
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequirePermission authenticates the caller and checks the route table
// in package auth. API paths answer with the JSON envelope; pages redirect
// to the login form or show an access-denied page.
func RequirePermission(svc *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := tokenFrom(c)
		if raw == "" {
			if isAPI(c) {
				return fail(c, fiber.StatusUnauthorized, "Not authenticated")
			}
			return c.Redirect("/auth/login?from=" + url.QueryEscape(c.OriginalURL()))
		}

		claims, err := svc.Identify(raw)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			if isAPI(c) {
				return fail(c, fiber.StatusUnauthorized, "Invalid authentication token")
			}
			clearAuthCookie(c, false)
			return c.Redirect("/auth/login?from=" + url.QueryEscape(c.OriginalURL()))
		}

		id := &Identity{UserID: claims.UserID, Role: claims.Role}
		c.Locals(identityKey, id)
		c.Locals(applog.UserIDKey, formatID(id.UserID))

		if !auth.AllowedMethod(id.Role, c.Method(), c.Path()) {
			applog.Security(c, "access.denied", map[string]any{"role": string(id.Role)})
			if isAPI(c) {
				return fail(c, fiber.StatusForbidden, "Insufficient permissions")
			}
			return renderMessage(c, fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}
