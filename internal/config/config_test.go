package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load("")

	assert.Equal(t, []string{"sync"}, cfg.Slack.ExcludeKeywords)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 0.1, cfg.Gemini.Temperature)
	assert.Equal(t, 8192, cfg.Gemini.MaxTokens)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.Endpoint)
	assert.False(t, cfg.Drive.Upload)
	assert.Equal(t, "journals", cfg.Journal.OutputDir)
	assert.Equal(t, "journals/archive.db", cfg.Database.Path)
	assert.Equal(t, "0 17 * * 5", cfg.Scheduler.CronExpression)
	assert.Equal(t, "Asia/Taipei", cfg.Scheduler.Timezone)
	assert.Equal(t, "Asia/Taipei", cfg.Scheduler.Location().String())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
slack:
  botToken: xoxb-test
  targetChannels: [dev-backend, dev-frontend]
  excludeKeywords: [standup, lunch]
gemini:
  model: gemini-exp
journal:
  outputDir: /tmp/journals
scheduler:
  cronExpression: "30 18 * * 4"
`), 0o644))

	cfg := Load(path)

	assert.Equal(t, "xoxb-test", cfg.Slack.BotToken)
	assert.Equal(t, []string{"dev-backend", "dev-frontend"}, cfg.Slack.TargetChannels)
	assert.Equal(t, []string{"standup", "lunch"}, cfg.Slack.ExcludeKeywords)
	assert.Equal(t, "gemini-exp", cfg.Gemini.Model)
	// Untouched sections keep their defaults.
	assert.Equal(t, 0.1, cfg.Gemini.Temperature)
	assert.Equal(t, "/tmp/journals", cfg.Journal.OutputDir)
	assert.Equal(t, "30 18 * * 4", cfg.Scheduler.CronExpression)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slack:\n  botToken: from-file\n"), 0o644))

	t.Setenv("SLACK_BOT_TOKEN", "from-env")
	t.Setenv("SLACK_TARGET_CHANNELS", "alpha, beta ,")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("DATABASE_PATH", "/tmp/archive.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load(path)

	assert.Equal(t, "from-env", cfg.Slack.BotToken)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Slack.TargetChannels)
	assert.Equal(t, "key-123", cfg.Gemini.APIKey)
	assert.Equal(t, "/tmp/archive.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o644))

	t.Setenv("SLACK_TO_JOURNAL_CONFIG", path)

	cfg := Load("")
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadBrokenFileDegradesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slack: [not a mapping"), 0o644))

	cfg := Load(path)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoadUnknownTimezoneRevertsToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  timezone: Not/AZone\n"), 0o644))

	cfg := Load(path)
	assert.Equal(t, "Asia/Taipei", cfg.Scheduler.Location().String())
}
