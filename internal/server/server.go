package server

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"shopdash/internal/config"
	"shopdash/internal/http/handlers"
	applog "shopdash/internal/log"
)

// BodyLimit caps request bodies.
const BodyLimit = 1 << 20 // 1 MiB

const genericError = "Something went wrong. Please try again."

// New builds the application: middleware stack, JSON API, HTML pages.
func New(cfg config.Config, db *sqlx.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        NewViews(cfg.TemplatesDir, !cfg.Production()),
		BodyLimit:    BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || p == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return tooMany(c)
		},
	}))

	pageCSRF := csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     handlers.CSRFCookie,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Production(),
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	})
	loginLimiter := limiter.New(limiter.Config{
		Max:        cfg.LoginLimit,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return tooMany(c)
		},
	})

	// ---------- Static assets ----------
	app.Static("/static", filepath.Join(filepath.Dir(filepath.Clean(cfg.TemplatesDir)), "static"))

	deps := handlers.NewDeps(db, cfg)
	requirePerm := handlers.RequirePermission(deps.AuthService)

	// ---------- JSON API ----------
	api := app.Group("/api")
	api.Post("/auth/login", loginLimiter, deps.AuthHandler.APILogin)
	api.Post("/auth/logout", deps.AuthHandler.APILogout)
	api.Get("/auth/me", deps.AuthHandler.Me)

	dash := api.Group("/dashboard", requirePerm)
	dash.Get("/stats", deps.AnalyticsHandler.Stats)
	dash.Get("/analytics", deps.AnalyticsHandler.Report)
	dash.Get("/products", deps.ProductHandler.List)
	dash.Post("/products", deps.ProductHandler.Create)
	dash.Get("/products/export", deps.ProductHandler.Export)
	dash.Get("/products/:id", deps.ProductHandler.Get)
	dash.Put("/products/:id", deps.ProductHandler.Update)
	dash.Delete("/products/:id", deps.ProductHandler.Delete)
	dash.Get("/categories", deps.CategoryHandler.List)
	dash.Get("/orders", deps.OrderHandler.List)
	dash.Get("/orders/:id", deps.OrderHandler.Get)
	dash.Patch("/orders/:id/status", deps.OrderHandler.UpdateStatus)
	dash.Get("/customers", deps.CustomerHandler.List)
	dash.Post("/customers", deps.CustomerHandler.Create)
	dash.Get("/settings", deps.SettingsHandler.Get)
	dash.Put("/settings", deps.SettingsHandler.Update)

	// ---------- Pages ----------
	authPages := app.Group("/auth", pageCSRF)
	authPages.Get("/login", deps.AuthHandler.LoginForm)
	authPages.Post("/login", loginLimiter, deps.AuthHandler.Login)
	authPages.Post("/logout", deps.AuthHandler.Logout)

	pages := app.Group("/dashboard", pageCSRF, requirePerm)
	pages.Get("/", deps.PageHandler.Dashboard)
	pages.Get("/products", deps.PageHandler.Products)
	pages.Get("/orders", deps.PageHandler.Orders)
	pages.Post("/orders/:id/status", deps.PageHandler.UpdateOrderStatus)
	pages.Get("/customers", deps.PageHandler.Customers)
	pages.Get("/analytics", deps.PageHandler.Analytics)
	pages.Get("/settings", deps.PageHandler.Settings)

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/dashboard") })

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			applog.Error(c, "health.db.fail", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}

func tooMany(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "error": "Too many requests, retry soon"})
	}
	return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Too many attempts. Please try again later."})
}

// ErrorHandler answers anything a handler returned. fiber errors below 500
// keep their status and message; everything else becomes a logged,
// generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := genericError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	} else {
		applog.Error(c, "server.error", err, nil)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
