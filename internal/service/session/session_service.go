package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"codeassist-be/internal/domain"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/logger"
)

// Claims is the session token payload. Only fields minted here are trusted;
// verification never consults the profile store.
type Claims struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 session tokens
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewService creates a new session service
func NewService(secret string, ttl time.Duration, logger *logger.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Issue mints a signed session token for the principal. Expiry is
// now + configured TTL.
func (s *Service) Issue(principal *domain.Principal) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("session signing secret is not configured")
	}

	now := s.now()
	claims := &Claims{
		UID:           principal.UID,
		Email:         principal.Email,
		DisplayName:   principal.DisplayName,
		EmailVerified: principal.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.WithField("uid", principal.UID).Debug("Session token issued")
	return signed, nil
}

// Verify validates a session token and returns the decoded principal.
// Expired tokens and all other decode/signature failures map to distinct
// sentinel errors so the gate can log the specific variant.
func (s *Service) Verify(raw string) (*domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", service.ErrSessionExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", service.ErrSessionMalformed, err)
	}

	if !token.Valid {
		return nil, service.ErrSessionMalformed
	}

	principal := &domain.Principal{
		UID:           claims.UID,
		Email:         claims.Email,
		DisplayName:   claims.DisplayName,
		EmailVerified: claims.EmailVerified,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	return principal, nil
}
