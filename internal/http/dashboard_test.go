package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopdash/internal/domain"
	"shopdash/internal/services"
)

func TestCustomersList(t *testing.T) {
	app, db, cfg := newApp(t)
	admin := cookieFor(t, cfg, db, adminEmail)

	resp, env := call(t, app, http.MethodGet, "/api/dashboard/customers", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Customers []domain.Customer `json:"customers"`
		services.PageInfo
	}
	decode(t, env, &page)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Customers, 3)
	assert.Equal(t, "alice@example.com", page.Customers[0].Email)
	assert.Equal(t, "432.96", page.Customers[0].TotalSpent.StringFixed(2))
	assert.Len(t, page.Customers[0].Addresses, 2)

	_, env = call(t, app, http.MethodGet, "/api/dashboard/customers?search=LINDQ", nil, admin)
	decode(t, env, &page)
	require.Len(t, page.Customers, 1)
	assert.Equal(t, "bob@example.com", page.Customers[0].Email)
}

func TestCustomerCreate(t *testing.T) {
	app, db, cfg := newApp(t)
	admin := cookieFor(t, cfg, db, adminEmail)
	body := map[string]string{
		"first_name": "Dana", "last_name": "Diaz", "email": "Dana@Example.com", "password": "S3cure!pass",
	}

	resp, env := call(t, app, http.MethodPost, "/api/dashboard/customers", body, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var c domain.Customer
	decode(t, env, &c)
	assert.Equal(t, "dana@example.com", c.Email)
	assert.NotZero(t, c.ID)
	assert.NotContains(t, string(env.Data), "S3cure!pass")

	resp, env = call(t, app, http.MethodPost, "/api/dashboard/customers", body, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Already exists", env.Error)

	body["email"] = "eve@example.com"
	body["password"] = "short"
	resp, _ = call(t, app, http.MethodPost, "/api/dashboard/customers", body, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsRoundTrip(t *testing.T) {
	app, db, cfg := newApp(t)
	admin := cookieFor(t, cfg, db, adminEmail)
	logs := captureLogs(t)

	resp, env := call(t, app, http.MethodGet, "/api/dashboard/settings?category=store", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var grouped map[string]map[string]json.RawMessage
	decode(t, env, &grouped)
	require.Len(t, grouped, 1)
	assert.JSONEq(t, `"USD"`, string(grouped["store"]["currency"]))

	resp, env = call(t, app, http.MethodPut, "/api/dashboard/settings", map[string]any{
		"category": "store",
		"settings": map[string]any{"currency": "EUR", "lowStockThreshold": 5, "tags": []string{"a", "b"}},
	}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)

	_, env = call(t, app, http.MethodGet, "/api/dashboard/settings?category=store", nil, admin)
	decode(t, env, &grouped)
	assert.JSONEq(t, `"EUR"`, string(grouped["store"]["currency"]))
	assert.JSONEq(t, `5`, string(grouped["store"]["lowStockThreshold"]))
	assert.JSONEq(t, `["a","b"]`, string(grouped["store"]["tags"]))

	_, env = call(t, app, http.MethodGet, "/api/dashboard/settings", nil, admin)
	decode(t, env, &grouped)
	assert.Len(t, grouped, 3)

	e, found := findLog(logs(), "settings.update")
	require.True(t, found)
	assert.Equal(t, "store", e.Fields["category"])
}

func TestSettingsRejectsBadInput(t *testing.T) {
	app, db, cfg := newApp(t)
	admin := cookieFor(t, cfg, db, adminEmail)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"no category", map[string]any{"settings": map[string]any{"a": 1}}},
		{"no settings", map[string]any{"category": "store"}},
		{"bad category", map[string]any{"category": "Store Front", "settings": map[string]any{"a": 1}}},
		{"bad key", map[string]any{"category": "store", "settings": map[string]any{"currency": "GBP", "bad key!": 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := call(t, app, http.MethodPut, "/api/dashboard/settings", tc.body, admin)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}

	// nothing from the rejected batch was stored
	_, env := call(t, app, http.MethodGet, "/api/dashboard/settings?category=store", nil, admin)
	var grouped map[string]map[string]json.RawMessage
	decode(t, env, &grouped)
	assert.JSONEq(t, `"USD"`, string(grouped["store"]["currency"]))

	resp, _ := call(t, app, http.MethodGet, "/api/dashboard/settings?category=DROP%20TABLE", nil, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsReport(t *testing.T) {
	app, db, cfg := newApp(t)
	admin := cookieFor(t, cfg, db, adminEmail)

	resp, env := call(t, app, http.MethodGet, "/api/dashboard/analytics", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report domain.Analytics
	decode(t, env, &report)
	assert.Equal(t, 30, report.Timeframe)
	assert.Equal(t, 5, report.Metrics.TotalOrders)
	assert.Equal(t, 3, report.Metrics.UniqueCustomers)
	assert.Equal(t, "749.95", report.Metrics.TotalRevenue.StringFixed(2))
	assert.Equal(t, "149.99", report.Metrics.AverageOrderValue.StringFixed(2))
	require.NotEmpty(t, report.TopProducts)
	assert.LessOrEqual(t, len(report.TopProducts), 5)

	_, env = call(t, app, http.MethodGet, "/api/dashboard/analytics?timeframe=365", nil, admin)
	decode(t, env, &report)
	assert.Equal(t, 6, report.Metrics.TotalOrders)

	for _, bad := range []string{"0", "366", "week", "-3"} {
		resp, env := call(t, app, http.MethodGet, "/api/dashboard/analytics?timeframe="+bad, nil, admin)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
		assert.False(t, env.Success)
	}
}

func TestStatsOverview(t *testing.T) {
	app, db, cfg := newApp(t)
	resp, env := call(t, app, http.MethodGet, "/api/dashboard/stats", nil, cookieFor(t, cfg, db, adminEmail))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st domain.Stats
	decode(t, env, &st)
	assert.Equal(t, "838.95", st.TotalRevenue.StringFixed(2))
	assert.Equal(t, "742.6", st.RevenueChange.String())
	assert.Equal(t, 6, st.TotalOrders)
	assert.Equal(t, 8, st.TotalProducts)
}
