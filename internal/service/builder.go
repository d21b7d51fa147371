package service

import (
	"trends-go/internal/config"
	"trends-go/pkg/api"
	"trends-go/pkg/trends"
)

// NewGoogleClient builds the Google Trends provider described by cfg
func NewGoogleClient(cfg *config.Config) (*api.Client, error) {
	conn := api.DefaultConnectionConfig()
	conn.RequestTimeout = cfg.HTTP.RequestTimeout
	conn.DialTimeout = cfg.HTTP.DialTimeout
	conn.MaxConnsPerHost = cfg.HTTP.MaxConnsPerHost
	conn.ProxyURL = cfg.HTTP.ProxyURL
	if cfg.HTTP.UserAgent != "" {
		conn.UserAgent = cfg.HTTP.UserAgent
	}

	return api.NewClient(api.ClientConfig{
		BaseURL:    cfg.Provider.BaseURL,
		Geo:        cfg.Provider.Geo,
		Category:   cfg.Provider.Category,
		Property:   cfg.Provider.Property,
		Connection: conn,
	})
}

// Options lifts the provider section into fetch options
func Options(cfg *config.Config) trends.Options {
	return trends.Options{
		Locale:    cfg.Provider.Locale,
		TZOffset:  cfg.Provider.TZOffset,
		Timeframe: cfg.Provider.Timeframe,
	}
}

// NewTrendService binds provider to the options in cfg
func NewTrendService(cfg *config.Config, provider trends.Provider) *trends.Fetcher {
	return trends.NewFetcher(provider, Options(cfg))
}
