package server

import "net/http"

// SecurityConfig lists the response headers added to every endpoint.
type SecurityConfig struct {
	Headers map[string]string
}

// DefaultSecurityConfig returns headers suited to a read-only scrape endpoint.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		Headers: map[string]string{
			"X-Content-Type-Options":  "nosniff",
			"X-Frame-Options":         "DENY",
			"Referrer-Policy":         "no-referrer",
			"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
			"Cache-Control":           "no-store",
		},
	}
}

// SecurityMiddleware sets the configured headers before calling next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range config.Headers {
			w.Header().Set(k, v)
		}
		next(w, r)
	}
}
