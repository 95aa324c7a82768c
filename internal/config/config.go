package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"medreminder/internal/domain/constant"

	yaml "go.yaml.in/yaml/v3"
)

// Notifier backends.
const (
	BackendLocal  = "local"
	BackendMemory = "memory"
)

// Config holds the service configuration.
type Config struct {
	Port            int        `yaml:"port"`
	DBURL           string     `yaml:"db_url"`
	LogLevel        string     `yaml:"log_level"`
	Platform        string     `yaml:"platform"`
	Timezone        string     `yaml:"timezone"`
	NotifierBackend string     `yaml:"notifier_backend"`
	Line            LineConfig `yaml:"line"`
}

// LineConfig holds LINE Messaging API credentials and delivery settings.
type LineConfig struct {
	ChannelSecret string  `yaml:"channel_secret"`
	ChannelToken  string  `yaml:"channel_access_token"`
	RecipientID   string  `yaml:"recipient_id"`
	PushPerSecond float64 `yaml:"push_per_second"`
}

// Enabled reports whether LINE delivery is configured.
func (l LineConfig) Enabled() bool {
	return l.ChannelSecret != "" && l.ChannelToken != "" && l.RecipientID != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:            8080,
		DBURL:           "reminders.db",
		LogLevel:        "info",
		Platform:        string(constant.PlatformAndroid),
		Timezone:        "Local",
		NotifierBackend: BackendLocal,
		Line:            LineConfig{PushPerSecond: 1},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if set), and environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("LINE_PUSH_PER_SECOND"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid LINE_PUSH_PER_SECOND %q: %w", v, err)
		}
		c.Line.PushPerSecond = rate
	}
	setString(&c.DBURL, "DB_URL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Platform, "PLATFORM")
	setString(&c.Timezone, "TIMEZONE")
	setString(&c.NotifierBackend, "NOTIFIER_BACKEND")
	setString(&c.Line.ChannelSecret, "CHANNEL_SECRET")
	setString(&c.Line.ChannelToken, "CHANNEL_ACCESS_TOKEN")
	setString(&c.Line.RecipientID, "LINE_RECIPIENT_ID")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBURL == "" && c.NotifierBackend == BackendLocal {
		return errors.New("DB_URL is required")
	}
	switch constant.Platform(strings.ToLower(c.Platform)) {
	case constant.PlatformAndroid, constant.PlatformIOS:
	default:
		return fmt.Errorf("PLATFORM must be one of: android, ios (got %q)", c.Platform)
	}
	switch c.NotifierBackend {
	case BackendLocal, BackendMemory:
	default:
		return fmt.Errorf("NOTIFIER_BACKEND must be one of: local, memory (got %q)", c.NotifierBackend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Line.PushPerSecond < 0 {
		return errors.New("LINE_PUSH_PER_SECOND must not be negative")
	}
	set := 0
	for _, v := range []string{c.Line.ChannelSecret, c.Line.ChannelToken, c.Line.RecipientID} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return errors.New("CHANNEL_SECRET, CHANNEL_ACCESS_TOKEN and LINE_RECIPIENT_ID must be set together")
	}
	return nil
}

// PlatformFamily returns the configured platform.
func (c *Config) PlatformFamily() constant.Platform {
	return constant.Platform(strings.ToLower(c.Platform))
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
