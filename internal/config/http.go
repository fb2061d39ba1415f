package config

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ParseProxy parses an outbound proxy URL. An empty string means no proxy.
func ParseProxy(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("proxy %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("proxy %q: scheme must be http, https or socks5", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy %q: missing host", raw)
	}
	return u, nil
}

// HTTPClient returns a client routed through the configured proxy. A zero
// timeout leaves requests bounded only by their context.
func (c *Config) HTTPClient(timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{}
	u, err := ParseProxy(c.Proxy)
	if err != nil {
		return nil, err
	}
	if u != nil {
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Timeout: timeout, Transport: transport}, nil
}
