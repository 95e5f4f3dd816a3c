package auth

import (
	"strings"

	"shopdash/internal/domain"
)

type Permission string

const (
	ViewDashboard    Permission = "view_dashboard"
	ManageUsers      Permission = "manage_users"
	ManageProducts   Permission = "manage_products"
	ManageOrders     Permission = "manage_orders"
	ManageSettings   Permission = "manage_settings"
	ViewAnalytics    Permission = "view_analytics"
	ManageOwnProduct Permission = "manage_own_products"
	ViewOwnOrders    Permission = "view_own_orders"
	ViewOwnAnalytics Permission = "view_own_analytics"
	ViewOwnProfile   Permission = "view_own_profile"
	ManageOwnProfile Permission = "manage_own_profile"
)

var rolePermissions = map[domain.Role][]Permission{
	domain.RoleAdmin:    {ViewDashboard, ManageUsers, ManageProducts, ManageOrders, ManageSettings, ViewAnalytics},
	domain.RoleSeller:   {ViewDashboard, ManageOwnProduct, ViewOwnOrders, ViewOwnAnalytics},
	domain.RoleCustomer: {ViewOwnOrders, ViewOwnProfile, ManageOwnProfile},
}

// Rule ties a path prefix to the permissions that unlock it; holding any
// one of them is enough.
type Rule struct {
	Prefix string
	AnyOf  []Permission
}

var (
	productPerms   = []Permission{ManageProducts, ManageOwnProduct}
	orderPerms     = []Permission{ManageOrders, ViewOwnOrders}
	analyticsPerms = []Permission{ViewAnalytics, ViewOwnAnalytics}
)

// Routes is the path-to-permission table for pages and API endpoints.
var Routes = []Rule{
	{"/dashboard", []Permission{ViewDashboard}},
	{"/dashboard/products", productPerms},
	{"/dashboard/orders", orderPerms},
	{"/dashboard/customers", []Permission{ManageUsers}},
	{"/dashboard/analytics", analyticsPerms},
	{"/dashboard/settings", []Permission{ManageSettings}},

	{"/api/dashboard", []Permission{ViewDashboard}},
	{"/api/dashboard/stats", []Permission{ViewDashboard}},
	{"/api/dashboard/products", productPerms},
	{"/api/dashboard/categories", productPerms},
	{"/api/dashboard/orders", orderPerms},
	{"/api/dashboard/customers", []Permission{ManageUsers}},
	{"/api/dashboard/analytics", analyticsPerms},
	{"/api/dashboard/settings", []Permission{ManageSettings}},
}

// WriteRoutes tightens Routes for requests that change state. The view_own
// permissions open the order screens for reading only.
var WriteRoutes = []Rule{
	{"/dashboard/orders", []Permission{ManageOrders}},
	{"/api/dashboard/orders", []Permission{ManageOrders}},
}

// PermissionsFor returns the static permission set of a role. Unknown roles
// get none.
func PermissionsFor(role domain.Role) []Permission {
	return rolePermissions[role]
}

// Required returns the permissions guarding path: the rule with the longest
// prefix that matches on a segment boundary. ok is false when no rule
// applies.
func Required(path string) (perms []Permission, ok bool) {
	return requiredIn(Routes, path)
}

func requiredIn(rules []Rule, path string) ([]Permission, bool) {
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	best := -1
	for i, r := range rules {
		if !matchPrefix(path, r.Prefix) {
			continue
		}
		if best < 0 || len(r.Prefix) > len(rules[best].Prefix) {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	return rules[best].AnyOf, true
}

func matchPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// HasAny reports whether held and required share at least one permission.
func HasAny(held, required []Permission) bool {
	for _, r := range required {
		for _, h := range held {
			if h == r {
				return true
			}
		}
	}
	return false
}

// Allowed decides access for a role on a path. Paths without a rule are
// open to any authenticated caller.
func Allowed(role domain.Role, path string) bool {
	required, ok := Required(path)
	if !ok {
		return true
	}
	return HasAny(PermissionsFor(role), required)
}

// AllowedMethod is Allowed plus the WriteRoutes check for any method other
// than GET, HEAD and OPTIONS.
func AllowedMethod(role domain.Role, method, path string) bool {
	if !Allowed(role, path) {
		return false
	}
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return true
	}
	required, ok := requiredIn(WriteRoutes, path)
	if !ok {
		return true
	}
	return HasAny(PermissionsFor(role), required)
}
