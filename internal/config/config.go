// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Upstream  UpstreamConfig
	Geocoding GeocodingConfig
	Cache     CacheConfig
	Sales     SalesConfig
	Receipt   ReceiptConfig
	Logging   LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains session token configuration
type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// UpstreamConfig describes the remote order/catalog API
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GeocodingConfig describes the reverse geocoding endpoint and the
// bound on a single current-location detection
type GeocodingConfig struct {
	BaseURL            string
	UserAgent          string
	Timeout            time.Duration
	GeolocationTimeout time.Duration
}

// CacheConfig contains snapshot expiry policy
type CacheConfig struct {
	CartSnapshotTTL    time.Duration
	CatalogSnapshotTTL time.Duration
}

// SalesConfig holds the sales representative contract with the backend
type SalesConfig struct {
	RoleName       string
	ProxyAccountID int
}

// ReceiptConfig contains receipt rendering details
type ReceiptConfig struct {
	StoreName  string
	StorePhone string
	Currency   string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront BFF"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 45*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
			SessionExpiry: getEnvAsDuration("JWT_SESSION_EXPIRE", 24*time.Hour),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_BASE_URL", "http://localhost:8000/api"),
			Timeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		},
		Geocoding: GeocodingConfig{
			BaseURL:            getEnv("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:          getEnv("GEOCODING_USER_AGENT", "storefront-bff/1.0"),
			Timeout:            getEnvAsDuration("GEOCODING_TIMEOUT", 5*time.Second),
			GeolocationTimeout: getEnvAsDuration("GEOLOCATION_TIMEOUT", 12*time.Second),
		},
		Cache: CacheConfig{
			CartSnapshotTTL:    getEnvAsDuration("CART_SNAPSHOT_TTL", 24*time.Hour),
			CatalogSnapshotTTL: getEnvAsDuration("CATALOG_SNAPSHOT_TTL", 10*time.Minute),
		},
		Sales: SalesConfig{
			RoleName:       getEnv("SALES_ROLE_NAME", "sales"),
			ProxyAccountID: getEnvAsInt("SALES_PROXY_ACCOUNT_ID", 0),
		},
		Receipt: ReceiptConfig{
			StoreName:  getEnv("RECEIPT_STORE_NAME", "Storefront"),
			StorePhone: getEnv("RECEIPT_STORE_PHONE", ""),
			Currency:   getEnv("RECEIPT_CURRENCY", "USD"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}

	// The proxy account is a backend contract; orders on behalf of customers
	// cannot be placed without it
	if c.Sales.ProxyAccountID <= 0 {
		return fmt.Errorf("SALES_PROXY_ACCOUNT_ID must be a positive account id")
	}

	if c.Geocoding.GeolocationTimeout <= 0 {
		return fmt.Errorf("GEOLOCATION_TIMEOUT must be positive")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
