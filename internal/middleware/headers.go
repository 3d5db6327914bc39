package middleware

import "net/http"

// SecurityHeaders sets conservative browser security headers
// frameSrc lists the origins allowed inside iframes (the embedded report)
func SecurityHeaders(frameSrc string) func(http.Handler) http.Handler {
	csp := "default-src 'self'; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'"
	if frameSrc != "" {
		csp += "; frame-src " + frameSrc
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "same-origin")
			next.ServeHTTP(w, r)
		})
	}
}
