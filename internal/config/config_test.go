package config

import (
	"os"
	"path/filepath"
	"testing"

	"medreminder/internal/domain/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "DB_URL", "LOG_LEVEL", "PLATFORM", "TIMEZONE", "NOTIFIER_BACKEND",
	"CHANNEL_SECRET", "CHANNEL_ACCESS_TOKEN", "LINE_RECIPIENT_ID", "LINE_PUSH_PER_SECOND",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "reminders.db", cfg.DBURL)
	assert.Equal(t, constant.PlatformAndroid, cfg.PlatformFamily())
	assert.Equal(t, BackendLocal, cfg.NotifierBackend)
	assert.False(t, cfg.Line.Enabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
platform: ios
timezone: Europe/Berlin
line:
  channel_secret: s
  channel_access_token: tok
  recipient_id: U1
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("NOTIFIER_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, constant.PlatformIOS, cfg.PlatformFamily())
	assert.Equal(t, BackendMemory, cfg.NotifierBackend)
	assert.True(t, cfg.Line.Enabled())
	assert.Equal(t, 1.0, cfg.Line.PushPerSecond)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"platform", func(c *Config) { c.Platform = "windows" }},
		{"backend", func(c *Config) { c.NotifierBackend = "redis" }},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"push rate", func(c *Config) { c.Line.PushPerSecond = -1 }},
		{"partial line", func(c *Config) { c.Line.ChannelSecret = "s" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)
}
