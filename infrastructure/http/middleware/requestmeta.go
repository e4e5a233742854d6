package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/quimipool/quimipool/internal/domain"
)

// RequestMeta stores the caller's user agent and resolved client IP on the
// request context so audit entries can carry them.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := domain.WithUserAgent(r.Context(), r.UserAgent())
		ctx = domain.WithClientIP(ctx, clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	// Trust the leftmost forwarded address when behind a proxy.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
