// Package config loads application configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Images   ImagesConfig   `mapstructure:"images"`
	LogLevel string         `mapstructure:"log_level"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// WeatherConfig configures the OpenWeather client and its cache.
type WeatherConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Lat      float64       `mapstructure:"lat"`
	Lon      float64       `mapstructure:"lon"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// GeminiConfig configures the LLM used for caption parsing and image generation.
type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	TextModel  string `mapstructure:"text_model"`
	ImageModel string `mapstructure:"image_model"`
}

// AuthConfig configures the password login and token signing.
type AuthConfig struct {
	Password string        `mapstructure:"password"`
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// TelegramConfig configures the optional webhook bot. The bot is disabled when
// the token is empty.
type TelegramConfig struct {
	BotToken       string  `mapstructure:"bot_token"`
	WebhookURL     string  `mapstructure:"webhook_url"`
	AllowedUserIDs []int64 `mapstructure:"allowed_user_ids"`
}

// ImagesConfig points at the directory for generated dish images.
type ImagesConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from the environment, an optional .env file, and
// defaults.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("WEEKMENU")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("weather.api_key", "OPENWEATHER_API_KEY")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("auth.password", "WEEKMENU_PASSWORD")
	viper.BindEnv("auth.secret", "WEEKMENU_AUTH_SECRET")
	viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("telegram.webhook_url", "TELEGRAM_WEBHOOK_URL")
	viper.BindEnv("log_level", "LOG_LEVEL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("database.path", "data/weekmenu.db")
	viper.SetDefault("images.path", "data/images")

	// De Bilt, the reference point of the Dutch weather service.
	viper.SetDefault("weather.lat", 52.11)
	viper.SetDefault("weather.lon", 5.18)
	viper.SetDefault("weather.cache_ttl", "30m")

	viper.SetDefault("gemini.text_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.image_model", "gemini-2.0-flash-exp")

	viper.SetDefault("auth.token_ttl", "720h")

	viper.SetDefault("log_level", "info")
}

func validate(cfg *Config) error {
	if cfg.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if cfg.Weather.APIKey == "" {
		return fmt.Errorf("OPENWEATHER_API_KEY environment variable not set")
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("WEEKMENU_AUTH_SECRET environment variable not set")
	}
	if cfg.Auth.Password == "" {
		return fmt.Errorf("WEEKMENU_PASSWORD environment variable not set")
	}
	if cfg.Weather.CacheTTL <= 0 {
		return fmt.Errorf("invalid weather cache ttl")
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.WebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL required when the bot token is set")
	}
	return nil
}
