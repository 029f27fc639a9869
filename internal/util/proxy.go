// Package util holds small shared helpers with no domain knowledge.
package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the proxy selector for outbound OCR and NER calls.
// With no explicit proxy configured it defers to the standard environment
// variables. noProxy is a comma-separated list of hosts that bypass the
// proxy; an entry matches the request host exactly or as a domain suffix,
// the conventional NO_PROXY reading.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitHostList(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if hostBypassed(req.URL.Hostname(), bypass) {
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

func splitHostList(list string) []string {
	var hosts []string
	for _, h := range strings.Split(list, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.TrimPrefix(h, ".")
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func hostBypassed(host string, bypass []string) bool {
	host = strings.ToLower(host)
	for _, b := range bypass {
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}
