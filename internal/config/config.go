package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration shared by the services.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Gateway  GatewayConfig
	Identity IdentityConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the identity service.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing parameters. Secret is a standard
// base64 encoding of the HMAC key; TokenTTLMillis bounds token lifetime.
// Both are fixed at startup and never mutated.
type AuthConfig struct {
	Secret         string
	TokenTTLMillis int
	BcryptCost     int
}

// TokenTTL returns the configured token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMillis) * time.Millisecond
}

// GatewayConfig defines the edge gateway behavior: where the
// authentication service lives, how long an authorize call may take,
// which path markers exempt a request from authorization, and where
// matched prefixes are forwarded.
type GatewayConfig struct {
	AuthServiceURL     string
	AuthorizeTimeoutMS int
	PublicMarkers      []string
	Routes             []RouteTarget
}

// RouteTarget forwards paths under Prefix to the service at URL.
type RouteTarget struct {
	Prefix string
	URL    string
}

// AuthorizeTimeout returns the bounded timeout for authorize calls.
func (g GatewayConfig) AuthorizeTimeout() time.Duration {
	if g.AuthorizeTimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(g.AuthorizeTimeoutMS) * time.Millisecond
}

// IdentityConfig locates the identity service and tunes its cache.
type IdentityConfig struct {
	BaseURL       string
	CacheTTLSec   int
	RequestTimeMS int
}

// CacheTTL returns how long security profiles may be served from cache.
func (i IdentityConfig) CacheTTL() time.Duration {
	if i.CacheTTLSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(i.CacheTTLSec) * time.Second
}

// RequestTimeout bounds identity lookup calls.
func (i IdentityConfig) RequestTimeout() time.Duration {
	if i.RequestTimeMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(i.RequestTimeMS) * time.Millisecond
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "auth-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Secret:         getEnv("AUTH_JWT_SECRET_B64", "c3VwZXItc2VjcmV0LXNpZ25pbmcta2V5LWZvci1kZXYtb25seQ=="),
			TokenTTLMillis: getEnvAsInt("AUTH_TOKEN_TTL_MS", 850000),
			BcryptCost:     getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Gateway: GatewayConfig{
			AuthServiceURL:     getEnv("GATEWAY_AUTH_SERVICE_URL", "http://127.0.0.1:8081"),
			AuthorizeTimeoutMS: getEnvAsInt("GATEWAY_AUTHORIZE_TIMEOUT_MS", 5000),
			PublicMarkers:      splitList(getEnv("GATEWAY_PUBLIC_MARKERS", "/authenticate,/user/new,/health,/metrics")),
			Routes:             parseRoutes(getEnv("GATEWAY_ROUTES", "/api/authenticate=http://127.0.0.1:8081,/api/authorize=http://127.0.0.1:8081,/api/user=http://127.0.0.1:8082")),
		},
		Identity: IdentityConfig{
			BaseURL:       getEnv("IDENTITY_SERVICE_URL", "http://127.0.0.1:8082"),
			CacheTTLSec:   getEnvAsInt("IDENTITY_CACHE_TTL_SECONDS", 30),
			RequestTimeMS: getEnvAsInt("IDENTITY_REQUEST_TIMEOUT_MS", 5000),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseRoutes(raw string) []RouteTarget {
	routes := make([]RouteTarget, 0)
	for _, pair := range strings.Split(raw, ",") {
		prefix, url, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || prefix == "" || url == "" {
			continue
		}
		routes = append(routes, RouteTarget{Prefix: prefix, URL: url})
	}
	return routes
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
