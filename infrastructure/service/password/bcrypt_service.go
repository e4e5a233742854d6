package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/quimipool/quimipool/internal/ports"
)

// BcryptService hashes and verifies employee passwords with bcrypt.
type BcryptService struct {
	cost int
}

// NewBcryptService creates the password service. A zero cost falls back to
// the bcrypt default.
func NewBcryptService(cost int) ports.PasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptService{cost: cost}
}

// Hash returns the bcrypt hash of a password.
func (s *BcryptService) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the password matches the hash. A mismatch is
// (false, nil); errors are reserved for malformed hashes.
func (s *BcryptService) Verify(password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, fmt.Errorf("passwords cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, nil
		}
		return false, fmt.Errorf("failed to compare passwords: %w", err)
	}
	return true, nil
}
