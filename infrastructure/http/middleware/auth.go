package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/quimipool/quimipool/internal/adapter/http/response"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

// AuthMiddleware validates bearer tokens and stores the principal on the
// request context. Authorization decisions stay with the UI layer; this
// only establishes identity.
type AuthMiddleware struct {
	tokens ports.TokenService
}

// NewAuthMiddleware creates the middleware.
func NewAuthMiddleware(tokens ports.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.principalFrom(r)
		if !ok {
			response.Unauthorized(w, "Invalid or missing token")
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), principal)))
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// proceeds anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := m.principalFrom(r); ok {
			r = r.WithContext(domain.WithPrincipal(r.Context(), principal))
		}
		next.ServeHTTP(w, r)
	}
}

func (m *AuthMiddleware) principalFrom(r *http.Request) (*domain.Principal, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, false
	}

	principal, err := m.tokens.Validate(parts[1])
	if err != nil {
		return nil, false
	}
	return principal, true
}

// ContextAuthProvider adapts the request context into the AuthProvider
// port consumed by actor resolution.
type ContextAuthProvider struct{}

var _ ports.AuthProvider = ContextAuthProvider{}

// CurrentPrincipal returns the principal stored by the auth middleware,
// or nil for anonymous requests.
func (ContextAuthProvider) CurrentPrincipal(ctx context.Context) (*domain.Principal, error) {
	return domain.PrincipalFrom(ctx), nil
}
