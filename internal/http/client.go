// Package http constructs the HTTP clients shared by the store adapters.
package http

import (
	"crypto/tls"
	nethttp "net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/http2"

	"github.com/cloudmigrate/drive2blob/internal/constants"
)

// NewPooledClient creates an HTTP client tuned for repeated transfers against
// a small set of hosts (the Drive API and one blob endpoint).
//
// Key characteristics:
//   - generous idle connection pool so sequential transfers reuse connections
//   - disabled compression (payloads are media bytes, often pre-compressed)
//   - HTTP/2 with a DISABLE_HTTP2 escape hatch for debugging
//   - no client-level timeout; each operation carries its own context deadline
func NewPooledClient() *nethttp.Client {
	tr := &nethttp.Transport{
		Proxy:                 nethttp.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
		DisableCompression:    true,
		ForceAttemptHTTP2:     true,
	}
	_ = http2.ConfigureTransport(tr)

	if os.Getenv("DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	return &nethttp.Client{Transport: tr}
}

// NewRetryableClient wraps the pooled client in transport-level retries for
// idempotent API calls (Drive listing/fetch, Gemini). Retries here are below
// the transfer engine's item semantics: a queue item is still attempted
// exactly once per run.
func NewRetryableClient() *nethttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = NewPooledClient()
	rc.RetryMax = constants.HTTPTransportRetryMax
	rc.RetryWaitMin = constants.HTTPTransportRetryWaitMin
	rc.RetryWaitMax = constants.HTTPTransportRetryWaitMax
	rc.Logger = nil // zerolog handles logging; retryablehttp's default is too chatty
	return rc.StandardClient()
}
