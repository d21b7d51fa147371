package api

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"

	"trends-go/pkg/logger"
)

// ConnectionConfig holds configuration for the Google Trends connection
type ConnectionConfig struct {
	MaxConnsPerHost     int           `json:"max_conns_per_host"`
	MaxIdleConnDuration time.Duration `json:"max_idle_conn_duration"`
	DialTimeout         time.Duration `json:"dial_timeout"`
	ReadTimeout         time.Duration `json:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout"`
	RequestTimeout      time.Duration `json:"request_timeout"`
	UserAgent           string        `json:"user_agent"`
	ProxyURL            string        `json:"proxy_url"`
}

// DefaultConnectionConfig returns settings suited to a handful of sequential requests
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnsPerHost:     16,
		MaxIdleConnDuration: 90 * time.Second,
		DialTimeout:         10 * time.Second,
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        10 * time.Second,
		RequestTimeout:      30 * time.Second,
		UserAgent:           "trends-go/1.0",
	}
}

// ConnectionManager owns the fasthttp client used for every session
type ConnectionManager struct {
	client *fasthttp.Client
	log    *logger.Logger
}

// NewConnectionManager creates a connection manager with the specified config
func NewConnectionManager(config ConnectionConfig) (*ConnectionManager, error) {
	dial, err := dialer(config)
	if err != nil {
		return nil, err
	}

	client := &fasthttp.Client{
		Name:                config.UserAgent,
		MaxConnsPerHost:     config.MaxConnsPerHost,
		MaxIdleConnDuration: config.MaxIdleConnDuration,
		ReadTimeout:         config.ReadTimeout,
		WriteTimeout:        config.WriteTimeout,
		Dial:                dial,
	}

	cm := &ConnectionManager{
		client: client,
		log:    logger.GetLogger().WithField("component", "connection_manager"),
	}
	cm.log.WithFields(map[string]interface{}{
		"max_conns_per_host": config.MaxConnsPerHost,
		"request_timeout":    config.RequestTimeout.String(),
		"proxy":              logger.MaskURL(config.ProxyURL),
	}).Debug("Connection manager initialized")
	return cm, nil
}

// GetFastHTTPClient returns the managed client
func (cm *ConnectionManager) GetFastHTTPClient() *fasthttp.Client {
	return cm.client
}

// Close closes all idle connections
func (cm *ConnectionManager) Close() {
	cm.client.CloseIdleConnections()
}

func dialer(config ConnectionConfig) (fasthttp.DialFunc, error) {
	if config.ProxyURL == "" {
		timeout := config.DialTimeout
		return func(addr string) (net.Conn, error) {
			return fasthttp.DialTimeout(addr, timeout)
		}, nil
	}

	proxy, err := url.Parse(config.ProxyURL)
	if err != nil || proxy.Host == "" {
		return nil, fmt.Errorf("invalid proxy url %s", logger.MaskURL(config.ProxyURL))
	}
	addr := proxy.Host
	if proxy.User != nil {
		addr = proxy.User.String() + "@" + addr
	}
	return fasthttpproxy.FasthttpHTTPDialerTimeout(addr, config.DialTimeout), nil
}
