package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// JWTService issues and validates HS256 access tokens carrying the
// principal's id and email.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates the token service.
func NewJWTService(secret string, ttl time.Duration) (ports.TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &JWTService{secret: []byte(secret), ttl: ttl}, nil
}

// Generate signs an access token for the principal.
func (s *JWTService) Generate(principal domain.Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   principal.ExternalID,
		"email": principal.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns the embedded principal.
func (s *JWTService) Validate(tokenString string) (*domain.Principal, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}

	principal := &domain.Principal{}
	if sub, ok := claims["sub"].(string); ok {
		principal.ExternalID = sub
	}
	if email, ok := claims["email"].(string); ok {
		principal.Email = email
	}
	if principal.ExternalID == "" && principal.Email == "" {
		return nil, ErrInvalidToken
	}

	return principal, nil
}
