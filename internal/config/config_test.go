package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	setRequired := func(t *testing.T) {
		t.Helper()
		t.Setenv("OPENWEATHER_API_KEY", "weather_key")
		t.Setenv("WEEKMENU_AUTH_SECRET", "secret")
		t.Setenv("WEEKMENU_PASSWORD", "hunter2")
	}

	t.Run("Defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "data/weekmenu.db", cfg.Database.Path)
		assert.Equal(t, "weather_key", cfg.Weather.APIKey)
		assert.InDelta(t, 52.11, cfg.Weather.Lat, 0.001)
		assert.Equal(t, "hunter2", cfg.Auth.Password)
		assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.TextModel)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("WEEKMENU_SERVER_PORT", "9999")
		t.Setenv("WEEKMENU_DATABASE_PATH", "/tmp/test.db")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("MissingWeatherKey", func(t *testing.T) {
		setRequired(t)
		os.Unsetenv("OPENWEATHER_API_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
	})

	t.Run("MissingPassword", func(t *testing.T) {
		setRequired(t)
		os.Unsetenv("WEEKMENU_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WEEKMENU_PASSWORD")
	})

	t.Run("BotTokenWithoutWebhook", func(t *testing.T) {
		setRequired(t)
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		os.Unsetenv("TELEGRAM_WEBHOOK_URL")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TELEGRAM_WEBHOOK_URL")
	})
}
