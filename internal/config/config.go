package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// State backend selectors.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port              string `yaml:"port"`
	LogLevel          string `yaml:"logLevel"`
	APIBaseURL        string `yaml:"apiBaseURL"`
	StateBackend      string `yaml:"stateBackend"`
	StatePath         string `yaml:"statePath"`
	RedisAddr         string `yaml:"redisAddr"`
	RedisPassword     string `yaml:"redisPassword"`
	DatabaseURL       string `yaml:"databaseURL"`
	RequestTimeout    string `yaml:"requestTimeout"`
	DebounceWindow    string `yaml:"debounceWindow"`
	SuggestLimit      int    `yaml:"suggestLimit"`
	StorageQuotaBytes int    `yaml:"storageQuotaBytes"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("STATE_BACKEND"); v != "" {
		cfg.StateBackend = v
	}
	if v := os.Getenv("STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = v
	}
	if v := os.Getenv("DEBOUNCE_WINDOW"); v != "" {
		cfg.DebounceWindow = v
	}
	if v := os.Getenv("STORAGE_QUOTA_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.StorageQuotaBytes = n
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.APIBaseURL == "" {
		return errors.New("config: apiBaseURL is required (set in config.yaml)")
	}
	switch cfg.StateBackend {
	case "", BackendMemory:
	case BackendFile:
		if strings.TrimSpace(cfg.StatePath) == "" {
			return errors.New("config: statePath is required for the file state backend")
		}
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required for the redis state backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("config: databaseURL is required for the postgres state backend")
		}
	default:
		return fmt.Errorf("config: unknown stateBackend %q", cfg.StateBackend)
	}
	if cfg.StorageQuotaBytes < 0 {
		return errors.New("config: storageQuotaBytes must be >= 0")
	}
	return nil
}

// ParseRequestTimeout parses the optional per-request timeout string.
func ParseRequestTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout duration: %w", err)
	}
	return dur, nil
}

// ParseDebounceWindow parses the optional autocomplete debounce string.
func ParseDebounceWindow(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid debounceWindow duration: %w", err)
	}
	return dur, nil
}
