package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	DB        DatabaseConfig
	Authority AuthorityConfig
	Assess    AssessConfig
	Limits    LimitsConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
	RPS  int // global rate limit, requests per second
}

type DatabaseConfig struct {
	Path string
}

type AuthorityConfig struct {
	// Keys is the shared-secret allow-list for authority verification.
	// Set-membership only, not authentication; see DESIGN.md.
	Keys []string
}

type AssessConfig struct {
	URL     string // remote assessment service; empty disables the remote path
	Timeout time.Duration
}

type LimitsConfig struct {
	Notifications int // most-recent notifications kept
	History       int // most-recent assessments kept
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
			RPS:  getEnvInt("RATE_LIMIT_RPS", 10),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/water-watch.db"),
		},
		Authority: AuthorityConfig{
			Keys: getEnvList("AUTHORITY_KEYS", []string{
				"WATER_DEPT_2024_SECURE",
				"HEALTH_MINISTRY_KEY",
				"MUNICIPAL_AUTH_2024",
			}),
		},
		Assess: AssessConfig{
			URL:     getEnv("ASSESS_URL", ""),
			Timeout: getEnvDuration("ASSESS_TIMEOUT", 10*time.Second),
		},
		Limits: LimitsConfig{
			Notifications: getEnvInt("NOTIFY_LIMIT", 50),
			History:       getEnvInt("HISTORY_LIMIT", 10),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if len(c.Authority.Keys) == 0 {
		return fmt.Errorf("authority key allow-list must not be empty")
	}
	for _, k := range c.Authority.Keys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("authority key allow-list contains an empty key")
		}
	}

	if c.Limits.Notifications < 1 {
		return fmt.Errorf("notification limit must be at least 1")
	}
	if c.Limits.History < 1 {
		return fmt.Errorf("assessment history limit must be at least 1")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
