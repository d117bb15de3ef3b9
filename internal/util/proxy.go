package util

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
// An empty httpsProxy reuses httpProxy; noProxy is a comma-separated list of
// hosts, domains or CIDRs that bypass the proxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	if httpsProxy == "" {
		httpsProxy = httpProxy
	}

	proxy := (&httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}).ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}

// NewHTTPClient builds a client with the given timeout and proxy settings
func NewHTTPClient(timeout time.Duration, httpProxy, httpsProxy, noProxy string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(httpProxy, httpsProxy, noProxy)
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
