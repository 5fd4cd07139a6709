package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"
)

// RequestLogger logs each API request with the authenticated identity
// when present.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, role := "-", "-"
		if c := GetClaims(r); c != nil {
			username = c.Username
			role = c.Role
		}
		log.Printf("[HTTP] %s %s user=%s role=%s ip=%s", r.Method, r.URL.Path, username, role, clientIP(r))
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the caller address from headers or remote addr.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.Split(ip, ",")[0]
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
