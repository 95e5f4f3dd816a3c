package handlers

import (
	"shopdash/internal/auth"
	"shopdash/internal/config"
	"shopdash/internal/repos"
	"shopdash/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthService *services.AuthService

	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	CategoryHandler  *CategoryHandler
	OrderHandler     *OrderHandler
	CustomerHandler  *CustomerHandler
	SettingsHandler  *SettingsHandler
	AnalyticsHandler *AnalyticsHandler
	PageHandler      *PageHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)
	analyticsRepo := repos.NewAnalyticsRepo(db)

	authSvc := services.NewAuthService(userRepo, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL))
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo)
	customerSvc := services.NewCustomerService(userRepo)
	settingsSvc := services.NewSettingsService(settingsRepo)
	analyticsSvc := services.NewAnalyticsService(analyticsRepo)

	return &Deps{
		AuthService:      authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc, Secure: cfg.Production()},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		CustomerHandler:  &CustomerHandler{Customers: customerSvc},
		SettingsHandler:  &SettingsHandler{Settings: settingsSvc},
		AnalyticsHandler: &AnalyticsHandler{Analytics: analyticsSvc},
		PageHandler: &PageHandler{
			CatalogSvc: catalogSvc, OrderSvc: orderSvc, CustomerSvc: customerSvc,
			SettingsSvc: settingsSvc, AnalyticsSvc: analyticsSvc,
		},
	}
}
