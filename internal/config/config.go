package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"climattr/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Engine   EngineConfig
}

// DatabaseConfig holds database connection settings; URL may be empty when
// persistence is disabled
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// EngineConfig holds default attribution engine settings
type EngineConfig struct {
	FitFunction string
	BootSize    int
	BootstrapCI int
	Workers     int
}

// Load reads configuration from the environment (and a .env file when
// present) and validates it
func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Engine: EngineConfig{
			FitFunction: getEnv("FIT_FUNCTION", "norm"),
		},
	}
	cfg.Database.Enabled = cfg.Database.URL != ""

	var err error
	if cfg.Engine.BootSize, err = getEnvInt("BOOT_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.Engine.BootstrapCI, err = getEnvInt("BOOTSTRAP_CI", 95); err != nil {
		return nil, err
	}
	if cfg.Engine.Workers, err = getEnvInt("ENGINE_WORKERS", 1); err != nil {
		return nil, err
	}

	if cfg.Engine.BootSize < 1 {
		return nil, errors.ConfigInvalid("BOOT_SIZE must be at least 1")
	}
	if cfg.Engine.BootstrapCI < 1 || cfg.Engine.BootstrapCI > 100 {
		return nil, errors.ConfigInvalid("BOOTSTRAP_CI must be between 1 and 100")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return parsed, nil
}
