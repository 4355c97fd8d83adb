package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Cache      CacheConfig
	Cloudinary CloudinaryConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	ConnectTimeout     time.Duration
	SlowQueryThreshold time.Duration
	EnableQueryLogging bool
	MigrationsPath     string
	MaxRetryAttempts   int
	RetryBackoff       time.Duration
}

// AuthConfig holds token verification configuration
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider      string
	TTL           time.Duration
	MaxKeys       int
	RedisURL      string
	RedisDB       int
	RedisPassword string
	PoolSize      int
}

// CloudinaryConfig holds asset upload configuration
type CloudinaryConfig struct {
	CloudName   string
	APIKey      string
	APISecret   string
	MaxFileSize int64
	MaxRetries  int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json", "console"
}

// Load reads configuration from the environment, with .env fallback
// outside production.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load() // fallback to .env
		}
	}

	config := &Config{
		Server:     loadServerConfig(env),
		Database:   loadDatabaseConfig(env),
		Auth:       loadAuthConfig(),
		Cache:      loadCacheConfig(),
		Cloudinary: loadCloudinaryConfig(),
		Logging:    loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	config := ServerConfig{
		Port:            getEnv("PORT", "9000"),
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Environment:     env,
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
	}

	if env == "development" {
		config.GracefulTimeout = 10 * time.Second
	}

	return config
}

func loadDatabaseConfig(env string) DatabaseConfig {
	return DatabaseConfig{
		URL:                getEnv("DATABASE_URL", ""),
		MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		ConnMaxIdleTime:    getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		ConnectTimeout:     getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
		SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		EnableQueryLogging: getBoolEnv("DB_ENABLE_QUERY_LOGGING", env != "production"),
		MigrationsPath:     getEnv("DB_MIGRATIONS_PATH", "migrations"),
		MaxRetryAttempts:   getIntEnv("DB_MAX_RETRY_ATTEMPTS", 5),
		RetryBackoff:       getDurationEnv("DB_RETRY_BACKOFF", 1*time.Second),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "codearena"),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Provider:      getEnv("CACHE_PROVIDER", "memory"),
		TTL:           getDurationEnv("CACHE_TTL", 15*time.Minute),
		MaxKeys:       getIntEnv("CACHE_MAX_KEYS", 10000),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		PoolSize:      getIntEnv("REDIS_POOL_SIZE", 10),
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:      getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:   getEnv("CLOUDINARY_API_SECRET", ""),
		MaxFileSize: getInt64Env("MAX_FILE_SIZE", 5*1024*1024),
		MaxRetries:  getIntEnv("CLOUDINARY_MAX_RETRIES", 3),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	format := "console"
	if env == "production" {
		format = "json"
	}
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", format),
	}
}

// Validate checks that required settings are present and well formed
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := url.Parse(c.Database.URL); err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.Cache.Provider == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when CACHE_PROVIDER=redis")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
