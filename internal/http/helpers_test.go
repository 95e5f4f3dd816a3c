package handlers_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"shopdash/internal/auth"
	"shopdash/internal/config"
	"shopdash/internal/repos"
	"shopdash/internal/server"
)

const (
	adminEmail    = "admin@shopdash.test"
	sellerEmail   = "seller@shopdash.test"
	customerEmail = "customer@shopdash.test"
	shopperEmail  = "alice@example.com"
	seedPassword  = "Passw0rd!"
)

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBDSN:        ":memory:",
		JWTSecret:    "test-secret",
		TokenTTL:     24 * time.Hour,
		TemplatesDir: "../../web/templates",
		CORSOrigins:  "http://localhost:3000",
		RateLimit:    1000,
		LoginLimit:   100,
	}
}

// newApp builds the full application over a seeded in-memory database.
// tweak may adjust the config before the app is built.
func newApp(t *testing.T, tweak ...func(*config.Config)) (*fiber.App, *sqlx.DB, config.Config) {
	t.Helper()
	cfg := testConfig()
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.SeedIfEmpty(db))
	return server.New(cfg, db), db, cfg
}

// cookieFor mints a session for a seeded user without going through the
// login endpoint and its limiter.
func cookieFor(t *testing.T, cfg config.Config, db *sqlx.DB, email string) *http.Cookie {
	t.Helper()
	u, err := repos.NewUserRepo(db).ByEmail(email)
	require.NoError(t, err)
	tok, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL).Issue(u)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: tok}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func send(t *testing.T, app *fiber.App, req *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// call sends body (marshaled as JSON when not nil) and decodes the envelope.
func call(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) (*http.Response, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := send(t, app, req, cookies...)
	defer resp.Body.Close()
	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp, env
}

func decode(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// csrfToken fetches path (a page behind the csrf middleware) and returns the
// issued double-submit cookie.
func csrfToken(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) *http.Cookie {
	t.Helper()
	resp := send(t, app, httptest.NewRequest(http.MethodGet, path, nil), cookies...)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := findCookie(resp, "csrf_")
	require.NotNil(t, c, "csrf cookie not set")
	return c
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return send(t, app, req, cookies...)
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Status int            `json:"status"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

// captureLogs redirects the std logger for the duration of the test and
// returns a function parsing the JSON lines written so far.
func captureLogs(t *testing.T) func() []logEntry {
	t.Helper()
	w := &lockedWriter{}
	flags := log.Flags()
	log.SetOutput(w)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return func() []logEntry {
		w.mu.Lock()
		data := append([]byte(nil), w.buf.Bytes()...)
		w.mu.Unlock()
		var out []logEntry
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			var e logEntry
			if json.Unmarshal(sc.Bytes(), &e) == nil && e.Action != "" {
				out = append(out, e)
			}
		}
		return out
	}
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
