package utils

import (
	"crypto/tls"
	"net/http"
	"time"
)

// HTTPClientOptions tunes the client the chat model providers share.
type HTTPClientOptions struct {
	Timeout time.Duration
	// Wrap decorates the pooled transport, e.g. with request tracing.
	Wrap func(http.RoundTripper) http.RoundTripper
}

func NewHTTPClient(opts HTTPClientOptions) *http.Client {
	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if opts.Wrap != nil {
		transport = opts.Wrap(transport)
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}
}
