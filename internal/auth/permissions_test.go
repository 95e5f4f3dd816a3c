package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopdash/internal/domain"
)

func TestRequiredLongestPrefix(t *testing.T) {
	cases := []struct {
		path string
		want []Permission
		ok   bool
	}{
		{"/dashboard", []Permission{ViewDashboard}, true},
		{"/dashboard/", []Permission{ViewDashboard}, true},
		{"/dashboard/customers", []Permission{ManageUsers}, true},
		{"/dashboard/productsX", []Permission{ViewDashboard}, true},
		{"/api/dashboard/products/12", productPerms, true},
		{"/api/dashboard/products/export", productPerms, true},
		{"/api/dashboard/settings", []Permission{ManageSettings}, true},
		{"/api/dashboard/unknown", []Permission{ViewDashboard}, true},
		{"/api/auth/me", nil, false},
		{"/", nil, false},
	}
	for _, tc := range cases {
		got, ok := Required(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}
}

// Access is granted exactly when the role's permissions and the route's
// required permissions intersect.
func TestAllowedIsSetIntersection(t *testing.T) {
	roles := []domain.Role{domain.RoleAdmin, domain.RoleSeller, domain.RoleCustomer, domain.RoleUser, "intruder"}
	for _, role := range roles {
		held := map[Permission]bool{}
		for _, p := range PermissionsFor(role) {
			held[p] = true
		}
		for _, rule := range Routes {
			want := false
			for _, p := range rule.AnyOf {
				if held[p] {
					want = true
				}
			}
			assert.Equal(t, want, Allowed(role, rule.Prefix), "%s on %s", role, rule.Prefix)
		}
	}
}

func TestAllowedExamples(t *testing.T) {
	assert.True(t, Allowed(domain.RoleAdmin, "/api/dashboard/customers"))
	assert.False(t, Allowed(domain.RoleSeller, "/api/dashboard/customers"))
	assert.True(t, Allowed(domain.RoleSeller, "/api/dashboard/products"))
	assert.False(t, Allowed(domain.RoleSeller, "/dashboard/settings"))
	assert.False(t, Allowed(domain.RoleCustomer, "/dashboard"))
	assert.True(t, Allowed(domain.RoleCustomer, "/api/dashboard/orders"))
	assert.False(t, Allowed(domain.RoleUser, "/api/dashboard/orders"))
}

func TestHasAny(t *testing.T) {
	assert.False(t, HasAny(nil, []Permission{ViewDashboard}))
	assert.False(t, HasAny([]Permission{ViewDashboard}, nil))
	assert.True(t, HasAny([]Permission{ManageUsers, ViewDashboard}, []Permission{ViewDashboard}))
}

func TestOrderWritesNeedManageOrders(t *testing.T) {
	for _, path := range []string{"/api/dashboard/orders/6/status", "/dashboard/orders/6/status"} {
		assert.True(t, AllowedMethod(domain.RoleAdmin, "PATCH", path), path)
		assert.True(t, AllowedMethod(domain.RoleAdmin, "POST", path), path)
		assert.False(t, AllowedMethod(domain.RoleSeller, "PATCH", path), path)
		assert.False(t, AllowedMethod(domain.RoleCustomer, "POST", path), path)
	}
	assert.True(t, AllowedMethod(domain.RoleCustomer, "GET", "/api/dashboard/orders/6"))
	assert.True(t, AllowedMethod(domain.RoleSeller, "POST", "/api/dashboard/products"))
	assert.False(t, AllowedMethod(domain.RoleUser, "GET", "/api/dashboard/orders"))
}
