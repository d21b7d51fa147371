package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// EnvPrefix is prepended to every environment override, e.g. TRENDS_PROVIDER_LOCALE
const EnvPrefix = "TRENDS"

type Manager struct {
	viper    *viper.Viper
	validate *validator.Validate
	envFile  string
}

func NewManager() *Manager {
	return &Manager{
		viper:    viper.New(),
		validate: validator.New(),
		envFile:  ".env",
	}
}

// WithEnvFile changes the dotenv file loaded before reading the environment.
// An empty path disables dotenv loading.
func (m *Manager) WithEnvFile(path string) *Manager {
	m.envFile = path
	return m
}

// Viper exposes the underlying instance so callers can bind flags
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// Load merges defaults, the optional config file, the environment and any
// bound flags, then validates the result
func (m *Manager) Load(configPath string) (*Config, error) {
	if m.envFile != "" {
		if err := godotenv.Load(m.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", m.envFile, err)
		}
	}

	m.setupViper()

	if configPath != "" {
		m.viper.SetConfigFile(configPath)
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (m *Manager) setupViper() {
	d := Default()
	defaults := map[string]interface{}{
		"provider.base_url":       d.Provider.BaseURL,
		"provider.locale":         d.Provider.Locale,
		"provider.tz_offset":      d.Provider.TZOffset,
		"provider.timeframe":      d.Provider.Timeframe,
		"provider.geo":            d.Provider.Geo,
		"provider.category":       d.Provider.Category,
		"provider.property":       d.Provider.Property,
		"http.request_timeout":    d.HTTP.RequestTimeout,
		"http.dial_timeout":       d.HTTP.DialTimeout,
		"http.max_conns_per_host": d.HTTP.MaxConnsPerHost,
		"http.user_agent":         d.HTTP.UserAgent,
		"http.proxy_url":          d.HTTP.ProxyURL,
		"server.host":             d.Server.Host,
		"server.port":             d.Server.Port,
		"server.shutdown_timeout": d.Server.ShutdownTimeout,
		"logger.level":            d.Logger.Level,
		"logger.format":           d.Logger.Format,
		"logger.output":           d.Logger.Output,
		"logger.time_format":      d.Logger.TimeFormat,
	}
	for key, value := range defaults {
		m.viper.SetDefault(key, value)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
}

// validateConfig checks struct tags and canonicalizes the locale tag
func (m *Manager) validateConfig(config *Config) error {
	config.Provider.Timeframe = strings.TrimSpace(config.Provider.Timeframe)
	if err := m.validate.Struct(config); err != nil {
		return err
	}

	tag, err := language.Parse(config.Provider.Locale)
	if err != nil {
		return fmt.Errorf("invalid provider locale %q: %w", config.Provider.Locale, err)
	}
	config.Provider.Locale = tag.String()
	config.Provider.Geo = strings.ToUpper(config.Provider.Geo)
	return nil
}
