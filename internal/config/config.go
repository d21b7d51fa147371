package config

import (
	"time"

	"trends-go/pkg/logger"
)

type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ProviderConfig selects what Google Trends is asked for
type ProviderConfig struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	Locale    string `mapstructure:"locale" validate:"required"`
	TZOffset  int    `mapstructure:"tz_offset" validate:"min=-840,max=720"`
	Timeframe string `mapstructure:"timeframe" validate:"required"`
	Geo       string `mapstructure:"geo" validate:"omitempty,max=8"`
	Category  int    `mapstructure:"category" validate:"min=0"`
	Property  string `mapstructure:"property" validate:"omitempty,oneof=images news youtube froogle"`
}

type HTTPConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout" validate:"gt=0"`
	MaxConnsPerHost int           `mapstructure:"max_conns_per_host" validate:"min=1"`
	UserAgent       string        `mapstructure:"user_agent"`
	ProxyURL        string        `mapstructure:"proxy_url" validate:"omitempty,url"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error fatal disabled"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// Logger converts the section into the logger package's config
func (c LoggerConfig) Logger() logger.Config {
	return logger.Config{
		Level:      c.Level,
		Format:     c.Format,
		Output:     c.Output,
		TimeFormat: c.TimeFormat,
	}
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			BaseURL:   "https://trends.google.com",
			Locale:    "en-US",
			TZOffset:  360,
			Timeframe: "today 3-m",
		},
		HTTP: HTTPConfig{
			RequestTimeout:  30 * time.Second,
			DialTimeout:     10 * time.Second,
			MaxConnsPerHost: 16,
			UserAgent:       "trends-go/1.0",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "warn",
			Format: "json",
			Output: "stderr",
		},
	}
}
