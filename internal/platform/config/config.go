package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage backends selectable with STORAGE.
const (
	StoragePgsql  = "pgsql"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	Storage       string

	JWTSecret string // Empty disables token parsing; every request acts as the system actor

	RedisAddr     string
	EventsChannel string

	RateLimit          string // ulule formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string

	BalanceTolerance  decimal.Decimal
	WorkerConcurrency int

	TracingEnabled bool
	ServiceName    string

	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE", StoragePgsql)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("EVENTS_CHANNEL", "ledger.events")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("BALANCE_TOLERANCE", "0.01")
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("SERVICE_NAME", "general-ledger")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     viper.GetBool("ENABLE_DB_CHECK"),
		Storage:           strings.ToLower(viper.GetString("STORAGE")),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		RedisAddr:         viper.GetString("REDIS_ADDR"),
		EventsChannel:     viper.GetString("EVENTS_CHANNEL"),
		RateLimit:         viper.GetString("RATE_LIMIT"),
		WorkerConcurrency: viper.GetInt("WORKER_CONCURRENCY"),
		TracingEnabled:    viper.GetBool("TRACING_ENABLED"),
		ServiceName:       viper.GetString("SERVICE_NAME"),
		LogLevel:          viper.GetString("LOG_LEVEL"),
		LogFormat:         viper.GetString("LOG_FORMAT"),
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	tolerance, err := decimal.NewFromString(viper.GetString("BALANCE_TOLERANCE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BALANCE_TOLERANCE %q: %w", viper.GetString("BALANCE_TOLERANCE"), err)
	}
	if !tolerance.IsPositive() {
		return nil, fmt.Errorf("BALANCE_TOLERANCE must be positive, got %s", tolerance)
	}
	cfg.BalanceTolerance = tolerance

	switch cfg.Storage {
	case StoragePgsql:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
		log.Println("Warning: STORAGE=memory, ledger data is not persisted.")
	default:
		return nil, fmt.Errorf("unknown STORAGE %q, expected %q or %q", cfg.Storage, StoragePgsql, StorageMemory)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 10
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. Requests are attributed to the system actor.")
	}

	return cfg, nil
}

// Default returns the configuration used by tests and in-process tools.
func Default() *Config {
	return &Config{
		Port:              "8080",
		Storage:           StorageMemory,
		EventsChannel:     "ledger.events",
		RateLimit:         "300-M",
		BalanceTolerance:  decimal.NewFromFloat(0.01),
		WorkerConcurrency: 10,
		ServiceName:       "general-ledger",
		LogLevel:          "info",
		LogFormat:         "json",
	}
}
