package ports

import (
	"context"
	"time"

	"github.com/quimipool/quimipool/internal/domain"
)

// AuthProvider exposes the currently authenticated principal. It may be
// unavailable (returning an error) or anonymous (returning nil), and the
// actor resolver must tolerate both.
type AuthProvider interface {
	CurrentPrincipal(ctx context.Context) (*domain.Principal, error)
}

// EmployeeDirectory is the lookup collaborator that maps an authenticated
// email to a domain actor id.
type EmployeeDirectory interface {
	// FindByEmail returns domain.ErrRecordNotFound when no employee matches.
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)

	Create(ctx context.Context, employee *domain.Employee) error
}

// TokenService issues and validates access tokens for the login flow.
type TokenService interface {
	Generate(principal domain.Principal) (string, error)
	Validate(token string) (*domain.Principal, error)
}

// PasswordService hashes and verifies employee passwords.
type PasswordService interface {
	Hash(password string) (string, error)
	// Verify returns (false, nil) on a mismatch; errors are reserved for
	// malformed hashes.
	Verify(password, hash string) (bool, error)
}

// RateLimiter throttles repeated attempts keyed by an arbitrary string.
type RateLimiter interface {
	// Allow increments the counter for key and reports whether the caller
	// is still under limit attempts within window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
