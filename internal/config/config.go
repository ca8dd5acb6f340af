package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all process-wide settings. It is built once at startup and
// never mutated; components receive it (or slices of it) at construction.
type AppConfig struct {
	// APIKeys is the set of credentials accepted on data endpoints.
	APIKeys map[string]struct{}

	// DatabaseURL is the Postgres connection string.
	DatabaseURL string

	Host string
	Port string

	// DataDir holds the per-date flat files served by /files/{date}.
	DataDir string

	// ExportInterval controls how often the flat-file exporter runs
	// (0 disables it).
	ExportInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	keys, err := loadAPIKeys()
	if err != nil {
		return nil, err
	}
	cfg.APIKeys = keys

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.Host = getenvDefault("HOST", "0.0.0.0")
	cfg.Port = getenvDefault("PORT", "8000")

	// RENDER_MOUNT_PATH wins so hosted deployments can point at their
	// mounted disk.
	cfg.DataDir = getenvDefault("RENDER_MOUNT_PATH", getenvDefault("DATA_DIR", "data"))

	intervalStr := getenvDefault("EXPORT_INTERVAL", "24h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_INTERVAL: %w", err)
	}
	cfg.ExportInterval = interval

	return cfg, nil
}

func loadAPIKeys() (map[string]struct{}, error) {
	raw := os.Getenv("API_KEYS")
	if raw == "" {
		return nil, fmt.Errorf("API_KEYS environment variable is required")
	}

	keys := make(map[string]struct{})
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("API_KEYS contains no usable keys")
	}

	return keys, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
