package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[server]
http_port = 8080

[database]
host = "localhost"
port = 5432
user = "bot"
dbname = "telegram"

[telegram]
bot_token = "123:abc"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Telegram.PollTimeout)
	assert.Equal(t, 5, cfg.Telegram.RetryDelay)
	assert.Equal(t, 30.0, cfg.Telegram.MessagesPerSecond)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Telegram.WebhookURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "999:env")
	t.Setenv("TELEGRAM_RETRY_DELAY", "2")
	t.Setenv("TELEGRAM_ALERT_CHAT_IDS", "358782858, -100123")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "999:env", cfg.Telegram.BotToken)
	assert.Equal(t, 2, cfg.Telegram.RetryDelay)
	assert.Equal(t, []int64{358782858, -100123}, cfg.Telegram.AlertChatIDs)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing token",
			content: "[server]\nhttp_port = 8080\n[database]\nhost = \"h\"\nport = 5432\nuser = \"u\"\ndbname = \"d\"\n",
			wantErr: "telegram bot token is required",
		},
		{
			name:    "bad port",
			content: "[server]\nhttp_port = 70000\n[database]\nhost = \"h\"\nport = 5432\nuser = \"u\"\ndbname = \"d\"\n[telegram]\nbot_token = \"t\"\n",
			wantErr: "HTTP port",
		},
		{
			name:    "update limit",
			content: minimalConfig + "update_limit = 500\n",
			wantErr: "update_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestParseChatIDs(t *testing.T) {
	ids, err := parseChatIDs("1, 2,,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseChatIDs("1,abc")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SMC_TEST_DOTENV=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SMC_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("SMC_TEST_DOTENV"))
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.toml", Path())

	t.Setenv("CONFIG_PATH", "/etc/bot/config.toml")
	assert.Equal(t, "/etc/bot/config.toml", Path())
}
