// Package webtransport implements the HTTP and streaming transport shared
// by every adapter. Adapters build a RequestData as a pure function of
// their inputs; this package is the only place that touches the network.
package webtransport

import (
	"net/http"
	"time"
)

// Config configures the shared HTTP client every adapter call goes
// through: timeouts and proxy.
type Config struct {
	// Timeout is set as the http.Client's Timeout, so it bounds the whole
	// exchange, including reading a streamed body to its end; there is no
	// separate per-chunk read timeout. Zero means no library-imposed
	// timeout.
	Timeout time.Duration

	// ConnectTimeout bounds establishing the underlying TCP/TLS
	// connection. Zero uses the transport's default.
	ConnectTimeout time.Duration

	// DefaultHeaders is carried on Config but NewHTTPClient does not read
	// it; no outbound request receives these headers.
	DefaultHeaders map[string]string

	// ProxyURL, if set, routes requests through the given proxy.
	ProxyURL string
}

// NewHTTPClient builds an *http.Client configured per cfg. It is safe to
// share across concurrent callers; cloning is just sharing the pointer,
// matching the library's "cheap-to-share" client contract.
func NewHTTPClient(cfg Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ConnectTimeout > 0 {
		transport.DialContext = dialContextWithTimeout(cfg.ConnectTimeout)
	}
	if cfg.ProxyURL != "" {
		proxyFn, err := proxyFunc(cfg.ProxyURL)
		if err != nil {
			return nil, err
		}
		transport.Proxy = proxyFn
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}
