package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultGlamourStyle = "dark"

type AppConfig struct {
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	RequestTimeout time.Duration `env:"API_REQUEST_TIMEOUT" envDefault:"120s"`
	ExportDir      string        `env:"EXPORT_DIR"`
	LogFile        string        `env:"LOG_FILE"`
}

// Parse loads configuration from .env (when present), the environment, and
// command-line flags, in that order of increasing precedence.
func Parse() (AppConfig, error) {
	_ = godotenv.Load(".env")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env config: %w", err)
	}

	flag.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "base URL of the notebook backend")
	flag.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "override podcast export output directory")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "path to debug log file")
	flag.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "HTTP request timeout")
	flag.Parse()

	if cfg.ExportDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return cfg, fmt.Errorf("resolve cwd: %w", err)
		}
		cfg.ExportDir = filepath.Join(cwd, "podcasts")
	}

	return cfg, nil
}
