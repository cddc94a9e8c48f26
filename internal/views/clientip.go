package views

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the client address of a request. It prefers the first
// entry of X-Forwarded-For, then X-Real-IP, then the transport peer
// address; the first non-empty match wins. Returns "" when nothing
// usable is present.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserAgent returns the request's User-Agent header, "" when absent.
func UserAgent(r *http.Request) string {
	return r.Header.Get("User-Agent")
}
