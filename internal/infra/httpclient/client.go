package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/cargotrack/server/internal/infra/config"
)

// Option adjusts a client built by New.
type Option func(*http.Client)

// WithTimeout overrides the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *http.Client) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// New creates a pooled HTTP client for outbound integrations.
func New(cfg config.HTTPClientConfig, opts ...Option) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.ResponseTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}
