package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// JWTSecret verifies tokens issued by the external auth service;
	// JWTIssuer, when set, is additionally required to match the token's
	// iss claim. This core never issues tokens itself.
	JWTSecret string
	JWTIssuer string

	// RateLimitSpec is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimitSpec string

	// DefaultCurrency is the display/settlement currency (RWF).
	DefaultCurrency string

	// StockAllowNegative selects the negative-stock policy: when true
	// (the default, matching observed salon behavior) a consumption may
	// drive a tracked product's level below zero; when false such an
	// append is rejected.
	StockAllowNegative bool

	// LowStockThreshold is the level at or below which a tracked product
	// counts as low stock (exclusive of zero).
	LowStockThreshold int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "salon-manager-app")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("DEFAULT_CURRENCY", "RWF")
	viper.SetDefault("STOCK_ALLOW_NEGATIVE", true)
	viper.SetDefault("LOW_STOCK_THRESHOLD", 5)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimitSpec = viper.GetString("RATE_LIMIT")
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	cfg.StockAllowNegative = viper.GetBool("STOCK_ALLOW_NEGATIVE")
	cfg.LowStockThreshold = viper.GetInt64("LOW_STOCK_THRESHOLD")
	if cfg.LowStockThreshold <= 0 {
		log.Println("Warning: LOW_STOCK_THRESHOLD must be positive, defaulting to 5")
		cfg.LowStockThreshold = 5
	}

	return cfg, nil
}
