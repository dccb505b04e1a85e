package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultEndpointURL   = "https://script.google.com/macros/s/AKfycbyE7rIvtNpnUKYJScuHlMwmeRZyR1xJC9bujgkG7khLoz1gtE1m5zb-fn3OO7l6ePycxA/exec"
	defaultWatchSchedule = "@every 15m"
	defaultLogLevel      = "warn"
	envPrefix            = "TIMECONFIRM_"
)

// Config holds the program settings. The delay and ttl fields use their
// defaults when zero; a zero http timeout means no timeout.
type Config struct {
	EndpointURL        string `yaml:"endpoint_url"`
	SettleDelayMS      int    `yaml:"settle_delay_ms"`
	VerifyDelayMS      int    `yaml:"verify_delay_ms"`
	NoticeTTLMS        int    `yaml:"notice_ttl_ms"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`

	DBPath         string `yaml:"db_path"`
	DisableJournal bool   `yaml:"disable_journal"`

	LogLevel      string `yaml:"log_level"`
	WatchSchedule string `yaml:"watch_schedule"`
}

func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

func (c Config) VerifyDelay() time.Duration {
	return time.Duration(c.VerifyDelayMS) * time.Millisecond
}

func (c Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeTTLMS) * time.Millisecond
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// LoadConfig reads .env, then config.yaml (TIMECONFIRM_CONFIG overrides the
// path), then TIMECONFIRM_* variables, then fills defaults.
func LoadConfig() (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("error loading .env: %w", err)
	}

	configPath := "config.yaml"
	if envPath := os.Getenv(envPrefix + "CONFIG"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing %s: %w", configPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("error reading %s: %w", configPath, err)
	}

	// env vars override YAML values
	envOverride(&cfg.EndpointURL, "ENDPOINT_URL")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.LogLevel, "LOG_LEVEL")
	envOverride(&cfg.WatchSchedule, "WATCH_SCHEDULE")
	ints := []struct {
		field *int
		key   string
	}{
		{&cfg.SettleDelayMS, "SETTLE_DELAY_MS"},
		{&cfg.VerifyDelayMS, "VERIFY_DELAY_MS"},
		{&cfg.NoticeTTLMS, "NOTICE_TTL_MS"},
		{&cfg.HTTPTimeoutSeconds, "HTTP_TIMEOUT_SECONDS"},
	}
	for _, o := range ints {
		if err := envOverrideInt(o.field, o.key); err != nil {
			return cfg, err
		}
	}
	if err := envOverrideBool(&cfg.DisableJournal, "DISABLE_JOURNAL"); err != nil {
		return cfg, err
	}

	// defaults
	if cfg.EndpointURL == "" {
		cfg.EndpointURL = defaultEndpointURL
	}
	if cfg.SettleDelayMS == 0 {
		cfg.SettleDelayMS = int(defaultSettleDelay / time.Millisecond)
	}
	if cfg.VerifyDelayMS == 0 {
		cfg.VerifyDelayMS = int(defaultVerifyDelay / time.Millisecond)
	}
	if cfg.NoticeTTLMS == 0 {
		cfg.NoticeTTLMS = int(defaultNoticeTTL / time.Millisecond)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(os.Getenv("HOME"), ".local", "share", "timeconfirm", "journal.db")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.WatchSchedule == "" {
		cfg.WatchSchedule = defaultWatchSchedule
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint_url '%s': %w", c.EndpointURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint_url '%s': scheme must be http or https", c.EndpointURL)
	}
	if c.SettleDelayMS < 0 {
		return fmt.Errorf("invalid settle_delay_ms '%d': must be >= 0", c.SettleDelayMS)
	}
	if c.VerifyDelayMS < 0 {
		return fmt.Errorf("invalid verify_delay_ms '%d': must be >= 0", c.VerifyDelayMS)
	}
	if c.NoticeTTLMS < 0 {
		return fmt.Errorf("invalid notice_ttl_ms '%d': must be >= 0", c.NoticeTTLMS)
	}
	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds '%d': must be >= 0", c.HTTPTimeoutSeconds)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := cronParser.Parse(c.WatchSchedule); err != nil {
		return fmt.Errorf("invalid watch_schedule '%s': %w", c.WatchSchedule, err)
	}
	return nil
}

func envOverride(field *string, key string) {
	if val := os.Getenv(envPrefix + key); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, key string) error {
	if val := os.Getenv(envPrefix + key); val != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid %s%s '%s': %w", envPrefix, key, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideBool(field *bool, key string) error {
	if val := os.Getenv(envPrefix + key); val != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid %s%s '%s': %w", envPrefix, key, val, err)
		}
		*field = parsed
	}
	return nil
}
