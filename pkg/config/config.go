package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	RequestLog RequestLogConfig
	Google     GoogleConfig
	Cache      CacheConfig
	Sync       SyncConfig
	E2E        E2EConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RequestLogConfig seeds the runtime request/response logging toggles.
// The endpoint overrides use the same pattern syntax as the runtime API:
// exact URIs or trailing-wildcard prefixes like "/api/events/*".
type RequestLogConfig struct {
	GlobalEnabled bool
	Endpoints     map[string]bool
}

// GoogleConfig holds the OAuth2 client used for Google Calendar access.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// CacheConfig tunes the Redis-backed read cache.
type CacheConfig struct {
	Enabled bool
	UserTTL time.Duration
}

// SyncConfig gates the background provider synchronization worker.
type SyncConfig struct {
	BackgroundEnabled bool
	Interval          time.Duration
	Workers           int
	MaxRetries        int
}

// E2EConfig gates test-support endpoints and the hard-delete path.
type E2EConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RequestLog = RequestLogConfig{
		GlobalEnabled: v.GetBool("REQUEST_RESPONSE_LOGGING_ENABLED"),
		Endpoints:     parseEndpointToggles(v.GetString("REQUEST_RESPONSE_LOGGING_ENDPOINTS")),
	}

	cfg.Google = GoogleConfig{
		ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		UserTTL: parseDuration(v.GetString("CACHE_USER_TTL"), 10*time.Minute),
	}

	cfg.Sync = SyncConfig{
		BackgroundEnabled: v.GetBool("ENABLE_BACKGROUND_SYNC"),
		Interval:          parseDuration(v.GetString("BACKGROUND_SYNC_INTERVAL"), 15*time.Minute),
		Workers:           v.GetInt("BACKGROUND_SYNC_WORKERS"),
		MaxRetries:        v.GetInt("BACKGROUND_SYNC_MAX_RETRIES"),
	}

	cfg.E2E = E2EConfig{
		Enabled: v.GetBool("ENABLE_E2E_SUPPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "calendar_api")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "calendar-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REQUEST_RESPONSE_LOGGING_ENABLED", true)
	v.SetDefault("REQUEST_RESPONSE_LOGGING_ENDPOINTS", "")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/oauth2/callback/google")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_USER_TTL", "10m")

	v.SetDefault("ENABLE_BACKGROUND_SYNC", false)
	v.SetDefault("BACKGROUND_SYNC_INTERVAL", "15m")
	v.SetDefault("BACKGROUND_SYNC_WORKERS", 1)
	v.SetDefault("BACKGROUND_SYNC_MAX_RETRIES", 3)

	v.SetDefault("ENABLE_E2E_SUPPORT", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// parseEndpointToggles parses "pattern=bool" pairs separated by commas,
// e.g. "/api/events=false,/api/events/*=true".
func parseEndpointToggles(raw string) map[string]bool {
	if raw == "" {
		return nil
	}

	result := make(map[string]bool)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.LastIndex(pair, "=")
		if idx <= 0 {
			continue
		}
		pattern := strings.TrimSpace(pair[:idx])
		value := strings.TrimSpace(pair[idx+1:])
		result[pattern] = strings.EqualFold(value, "true")
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
