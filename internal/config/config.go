package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// BotToken authenticates the process against the chat platform. It is
	// the only process-global credential; ledger URLs and tokens are
	// per-user and collected during setup.
	BotToken string

	// ConfigDir holds the session database.
	ConfigDir string

	HTTPTimeout    time.Duration
	StorageBackend string // "bolt" or "memory"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("%s: invalid duration %q: %v", key, v, err)
	}
	return d
}

// Load reads all env vars and builds the config. A .env file in the
// working directory is honored for local development.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		ConfigDir:      getEnv("CONFIG_PATH", ""),
		HTTPTimeout:    getDurationEnv("FIREFLY_BOT_HTTP_TIMEOUT", 15*time.Second),
		StorageBackend: getEnv("FIREFLY_BOT_STORAGE_BACKEND", "bolt"),
	}

	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN must be set")
	}

	if cfg.ConfigDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			log.Fatalf("resolving user config dir: %v", err)
		}
		cfg.ConfigDir = filepath.Join(base, "firefly-bot")
	}
	if err := os.MkdirAll(cfg.ConfigDir, 0o755); err != nil {
		log.Fatalf("creating config dir %s: %v", cfg.ConfigDir, err)
	}

	return cfg
}
