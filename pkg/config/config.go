package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Bus      BusConfig
	Pricing  PricingConfig
	Alert    AlertConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	LogLevel    string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// BusConfig selects the signal bus driver: "redis" for the shared pub/sub
// bus, "memory" for single-process runs and tests.
type BusConfig struct {
	Driver string
}

type PricingConfig struct {
	// CycleIntervalMinutes is the minimum gap between supervisor cycles.
	CycleIntervalMinutes int
	// SupervisorEnabled starts the continuous cycle loop alongside the server.
	SupervisorEnabled bool
}

// AlertConfig points at the ops webhook that receives audit-write failures.
// An empty URL disables alerting.
type AlertConfig struct {
	AlertWebhookURL        string
	AlertBasicAuthUsername string
	AlertBasicAuthPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cycleInterval, err := strconv.Atoi(getEnv("PRICING_CYCLE_INTERVAL_MINUTES", "30"))
	if err != nil {
		return nil, errors.New("invalid pricing cycle interval")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Dynamic Pricing API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "dynamic_pricing"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Bus: BusConfig{
			Driver: getEnv("BUS_DRIVER", "redis"),
		},
		Pricing: PricingConfig{
			CycleIntervalMinutes: cycleInterval,
			SupervisorEnabled:    getEnv("SUPERVISOR_ENABLED", "true") == "true",
		},
		Alert: AlertConfig{
			AlertWebhookURL:        getEnv("ALERT_WEBHOOK_URL", ""),
			AlertBasicAuthUsername: getEnv("ALERT_BASIC_AUTH_USERNAME", ""),
			AlertBasicAuthPassword: getEnv("ALERT_BASIC_AUTH_PASSWORD", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Bus.Driver != "redis" && cfg.Bus.Driver != "memory" {
		return nil, errors.New("unknown bus driver")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
