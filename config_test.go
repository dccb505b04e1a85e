package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("HOME", dir)
	for _, key := range []string{
		"CONFIG", "ENDPOINT_URL", "SETTLE_DELAY_MS", "VERIFY_DELAY_MS", "NOTICE_TTL_MS",
		"HTTP_TIMEOUT_SECONDS", "DB_PATH", "DISABLE_JOURNAL", "LOG_LEVEL", "WATCH_SCHEDULE",
	} {
		t.Setenv(envPrefix+key, "")
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	home := isolateConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, defaultEndpointURL, cfg.EndpointURL)
	assert.Equal(t, 2000*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, 1500*time.Millisecond, cfg.VerifyDelay())
	assert.Equal(t, 6000*time.Millisecond, cfg.NoticeTTL())
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout())
	assert.Equal(t, filepath.Join(home, ".local", "share", "timeconfirm", "journal.db"), cfg.DBPath)
	assert.False(t, cfg.DisableJournal)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "@every 15m", cfg.WatchSchedule)
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	dir := isolateConfig(t)

	cfgPath := filepath.Join(dir, "custom.yaml")
	content := `
endpoint_url: "https://yaml.example.com/exec"
settle_delay_ms: 3000
verify_delay_ms: 500
http_timeout_seconds: 30
db_path: "/tmp/yaml.db"
log_level: "info"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	t.Setenv("TIMECONFIRM_CONFIG", cfgPath)
	t.Setenv("TIMECONFIRM_VERIFY_DELAY_MS", "2500")
	t.Setenv("TIMECONFIRM_DISABLE_JOURNAL", "true")
	t.Setenv("TIMECONFIRM_WATCH_SCHEDULE", "*/5 * * * *")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://yaml.example.com/exec", cfg.EndpointURL)
	assert.Equal(t, 3*time.Second, cfg.SettleDelay())
	assert.Equal(t, 2500*time.Millisecond, cfg.VerifyDelay())
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "/tmp/yaml.db", cfg.DBPath)
	assert.True(t, cfg.DisableJournal)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "*/5 * * * *", cfg.WatchSchedule)
}

func TestLoadConfigZeroDelaysUseDefaults(t *testing.T) {
	dir := isolateConfig(t)
	content := "settle_delay_ms: 0\nverify_delay_ms: 0\nnotice_ttl_ms: 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultSettleDelay, cfg.SettleDelay())
	assert.Equal(t, defaultVerifyDelay, cfg.VerifyDelay())
	assert.Equal(t, defaultNoticeTTL, cfg.NoticeTTL())

	c := NewController(&fakeBackend{}, newRecordingView(), PrompterFunc(func(string) bool { return true }), WithDelays(0, 0))
	assert.Equal(t, defaultSettleDelay, c.settleDelay)
	assert.Equal(t, defaultVerifyDelay, c.verifyDelay)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := isolateConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TIMECONFIRM_SETTLE_DELAY_MS=4000\n"), 0o600))
	os.Unsetenv("TIMECONFIRM_SETTLE_DELAY_MS")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, cfg.SettleDelay())
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"ENDPOINT_URL":    "ftp://example.com",
		"SETTLE_DELAY_MS": "-1",
		"NOTICE_TTL_MS":   "soon",
		"LOG_LEVEL":       "loud",
		"WATCH_SCHEDULE":  "every now and then",
		"DISABLE_JOURNAL": "maybe",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			isolateConfig(t)
			t.Setenv(envPrefix+key, val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
