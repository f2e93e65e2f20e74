package util

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
// noProxy is a comma-separated list of hosts, domains (".example.com" or
// "example.com") and "*", matched like NO_PROXY.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := parseNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypass(req.URL.Hostname()) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func parseNoProxy(noProxy string) func(host string) bool {
	var entries []string
	for _, e := range strings.Split(noProxy, ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			entries = append(entries, e)
		}
	}

	return func(host string) bool {
		host = strings.ToLower(host)
		for _, e := range entries {
			switch {
			case e == "*":
				return true
			case strings.Contains(e, "/"):
				if _, cidr, err := net.ParseCIDR(e); err == nil {
					if ip := net.ParseIP(host); ip != nil && cidr.Contains(ip) {
						return true
					}
				}
			default:
				domain := strings.TrimPrefix(e, ".")
				if host == domain || strings.HasSuffix(host, "."+domain) {
					return true
				}
			}
		}
		return false
	}
}
