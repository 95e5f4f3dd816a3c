package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSecret = "shopdash-dev-secret-change-me"

// Config is the resolved runtime configuration. RateLimit is requests per
// minute per IP; LoginLimit is login attempts per 10 minutes per IP.
type Config struct {
	Port         string
	Env          string
	DBDriver     string
	DBDSN        string
	JWTSecret    string
	TokenTTL     time.Duration
	LogFile      string
	TemplatesDir string
	CORSOrigins  string
	RateLimit    int
	LoginLimit   int
}

func (c Config) Production() bool { return c.Env == "production" }

func Load() Config {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		Env:          strings.ToLower(getenv("APP_ENV", "development")),
		DBDriver:     strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBDSN:        getenv("DB_DSN", "shopdash.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     24 * time.Hour,
		LogFile:      os.Getenv("LOG_FILE"),
		TemplatesDir: getenv("TEMPLATES_DIR", "./web/templates"),
		CORSOrigins:  getenv("CORS_ORIGINS", "http://localhost:3000"),
		RateLimit:    getint("RATE_LIMIT", 120),
		LoginLimit:   getint("LOGIN_LIMIT", 5),
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			cfg.TokenTTL = d
		} else {
			log.Printf("[warn] ignoring TOKEN_TTL=%q", ttl)
		}
	}
	if cfg.JWTSecret == "" {
		if cfg.Production() {
			log.Fatal("[config] JWT_SECRET must be set when APP_ENV=production")
		}
		cfg.JWTSecret = devSecret
	}

	log.Printf("[config] PORT=%s APP_ENV=%s DB_DRIVER=%s DB_DSN=%s TOKEN_TTL=%s LOG_FILE=%s TEMPLATES_DIR=%s RATE_LIMIT=%d LOGIN_LIMIT=%d",
		cfg.Port, cfg.Env, cfg.DBDriver, redactDSN(cfg.DBDSN), cfg.TokenTTL, cfg.LogFile, cfg.TemplatesDir, cfg.RateLimit, cfg.LoginLimit)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Printf("[warn] ignoring %s=%q", key, v)
		return def
	}
	return n
}

// redactDSN hides the password part of URL-style DSNs.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	userinfo := dsn[scheme+3 : at]
	if i := strings.Index(userinfo, ":"); i >= 0 {
		return dsn[:scheme+3] + userinfo[:i] + ":***" + dsn[at:]
	}
	return dsn
}
