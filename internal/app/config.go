package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kerbstone/pavetrack-backend/internal/platform/envutil"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// Config carries the process-level settings. Environment variables are the
// primary source; a YAML file named by CONFIG_FILE overlays non-zero values
// on top, which is how deployed environments pin settings per cluster.
type Config struct {
	Environment  string        `yaml:"environment"`
	Port         string        `yaml:"port"`
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	ShutdownWait time.Duration `yaml:"shutdown_wait"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Environment:  envutil.String("APP_ENV", "development"),
		Port:         envutil.String("PORT", "8080"),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		ShutdownWait: envutil.Duration("SHUTDOWN_WAIT", 10*time.Second),
	}
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		if err := overlayConfigFile(&cfg, path); err != nil {
			log.Warn("config file overlay failed (using env only)", "path", path, "error", err)
		} else {
			log.Info("config file applied", "path", path)
		}
	}
	return cfg
}

func overlayConfigFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if file.Environment != "" {
		cfg.Environment = file.Environment
	}
	if file.Port != "" {
		cfg.Port = file.Port
	}
	if file.JWTSecretKey != "" {
		cfg.JWTSecretKey = file.JWTSecretKey
	}
	if file.ShutdownWait > 0 {
		cfg.ShutdownWait = file.ShutdownWait
	}
	return nil
}
