package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port     int    `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"` // development | production
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// MinIO
	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`

	// Auth
	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWKSURL   string `mapstructure:"JWKS_URL"` // when set, tokens are verified against this key set

	// Business
	BusinessUTCOffsetHours int           `mapstructure:"BUSINESS_UTC_OFFSET_HOURS"`
	LowStockScanInterval   time.Duration `mapstructure:"LOW_STOCK_SCAN_INTERVAL"`
	WorkerConcurrency      int           `mapstructure:"WORKER_CONCURRENCY"`
}

var errMissingDatabaseURL = errors.New("DATABASE_URL is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "product-images")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWKS_URL", "")
	v.SetDefault("BUSINESS_UTC_OFFSET_HOURS", 7)
	v.SetDefault("LOW_STOCK_SCAN_INTERVAL", "30m")
	v.SetDefault("WORKER_CONCURRENCY", 5)
}

// Load reads configuration from environment variables, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	// missing .env is fine outside development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errMissingDatabaseURL
	}
	if c.JWTSecret == "" && c.JWKSURL == "" {
		return errors.New("one of JWT_SECRET or JWKS_URL is required")
	}
	if c.BusinessUTCOffsetHours < -12 || c.BusinessUTCOffsetHours > 14 {
		return errors.New("BUSINESS_UTC_OFFSET_HOURS must be between -12 and 14")
	}
	if c.LowStockScanInterval <= 0 {
		return errors.New("LOW_STOCK_SCAN_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
