package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/placeshare-backend/internal/platform/env"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

// Config is the process-level configuration. Environment variables provide
// the base values; an optional YAML file named by CONFIG_FILE overlays any
// fields it sets. Component-level settings (bucket, geocoder, JWT) stay in
// their own packages' env lookups.
type Config struct {
	Port        string `yaml:"port"`
	LogMode     string `yaml:"log_mode"`
	ServiceName string `yaml:"service_name"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPass   string `yaml:"redis_pass"`
}

func LoadConfig(log *logger.Logger) (*Config, error) {
	cfg := &Config{
		Port:        env.Get("PORT", "8080", log),
		LogMode:     env.Get("LOG_MODE", "dev", log),
		ServiceName: env.Get("SERVICE_NAME", "placeshare-backend", log),
		RedisAddr:   env.Get("REDIS_ADDR", "", log),
		RedisPass:   env.Get("REDIS_PASS", "", log),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		overlay := &Config{}
		if err := yaml.Unmarshal(raw, overlay); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		cfg.apply(overlay)
		log.Info("config overlay applied", "path", path)
	}
	return cfg, nil
}

func (c *Config) apply(overlay *Config) {
	if overlay.Port != "" {
		c.Port = overlay.Port
	}
	if overlay.LogMode != "" {
		c.LogMode = overlay.LogMode
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
	if overlay.RedisAddr != "" {
		c.RedisAddr = overlay.RedisAddr
	}
	if overlay.RedisPass != "" {
		c.RedisPass = overlay.RedisPass
	}
}
