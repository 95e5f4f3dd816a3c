package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginIsLogged(t *testing.T) {
	app, _, _ := newApp(t)
	logs := captureLogs(t)

	resp, _ := call(t, app, http.MethodPost, "/api/auth/login", map[string]string{"email": sellerEmail, "password": "bad"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", map[string]string{"email": sellerEmail, "password": seedPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs()
	failed, found := findLog(entries, "auth.login.fail")
	require.True(t, found)
	assert.Equal(t, "warn", failed.Level)
	assert.Equal(t, sellerEmail, failed.Fields["email"])
	assert.Empty(t, failed.UserID)

	ok, found := findLog(entries, "auth.login.success")
	require.True(t, found)
	assert.Equal(t, "audit", ok.Level)
	assert.Equal(t, "2", ok.UserID)
	assert.Equal(t, "seller", ok.Fields["role"])

	for _, e := range entries {
		for _, v := range e.Fields {
			assert.NotEqual(t, seedPassword, v, "password leaked into %s", e.Action)
		}
	}
}

func TestValidationFailuresAreLogged(t *testing.T) {
	app, db, cfg := newApp(t)
	logs := captureLogs(t)

	resp, _ := call(t, app, http.MethodGet, "/api/dashboard/orders/0", nil, cookieFor(t, cfg, db, adminEmail))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	e, found := findLog(logs(), "validation.fail")
	require.True(t, found)
	assert.Equal(t, "id", e.Fields["field"])
	assert.Equal(t, "1", e.UserID)
}
