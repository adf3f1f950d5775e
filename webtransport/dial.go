package webtransport

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"
)

func dialContextWithTimeout(timeout time.Duration) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: timeout}
	return dialer.DialContext
}

func proxyFunc(rawURL string) (func(*http.Request) (*url.URL, error), error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return http.ProxyURL(u), nil
}
