package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"codeassist-be/internal/domain"
	"codeassist-be/internal/repository"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/errors"
	"codeassist-be/pkg/logger"
)

// externalCallTimeout bounds every identity-provider and profile-store call.
// A hung external call must never hold a request indefinitely.
const externalCallTimeout = 15 * time.Second

const minPasswordLength = 6

// Service orchestrates registration and the identity-to-session exchange
type Service struct {
	identity service.IdentityProvider
	profiles repository.ProfileRepository
	sessions service.SessionService
	logger   *logger.Logger
}

// NewService creates a new auth service
func NewService(identity service.IdentityProvider, profiles repository.ProfileRepository, sessions service.SessionService, logger *logger.Logger) service.AuthService {
	return &Service{
		identity: identity,
		profiles: profiles,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates an account at the identity provider and seeds the profile
// mirror. The profile write is best-effort: the provider account already
// exists, so a mirror failure must not fail the registration.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*domain.RegisterResult, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	if email == "" || password == "" || displayName == "" {
		return nil, errors.NewValidationError("Name, email, and password are required.")
	}
	if len(password) < minPasswordLength {
		return nil, errors.NewValidationError("Password must be at least 6 characters")
	}

	createCtx, cancel := context.WithTimeout(ctx, externalCallTimeout)
	defer cancel()

	user, err := s.identity.CreateUser(createCtx, email, password, displayName)
	if err != nil {
		if stderrors.Is(err, service.ErrIdentityEmailExists) {
			s.logger.WithField("email", email).Warn("Registration rejected: email already exists")
			return nil, errors.NewDuplicateError("Email already registered")
		}
		s.logger.WithError(err).Error("Identity provider failed to create user")
		return nil, errors.NewProviderError(fmt.Sprintf("Authentication error: %v", err), err)
	}

	s.upsertProfile(ctx, user.UID, map[string]interface{}{
		"email":       email,
		"displayName": displayName,
		"createdAt":   user.CreatedAt,
		"role":        repository.DefaultRole,
	})

	s.logger.WithFields(map[string]interface{}{
		"uid":   user.UID,
		"email": email,
	}).Info("User registered")

	return &domain.RegisterResult{
		UID:         user.UID,
		Email:       email,
		DisplayName: displayName,
	}, nil
}

// ExchangeSession converts an identity token into a locally-issued session
// token. Each stage maps to a distinct outcome; only the profile mirror is
// allowed to fail without aborting the exchange.
func (s *Service) ExchangeSession(ctx context.Context, idToken string, hints *domain.ProfileHints) (*domain.SessionResult, error) {
	if idToken == "" {
		return nil, errors.NewValidationError("idToken is required")
	}

	verifyCtx, cancelVerify := context.WithTimeout(ctx, externalCallTimeout)
	defer cancelVerify()

	claims, err := s.identity.VerifyIDToken(verifyCtx, idToken)
	if err != nil {
		// One client-visible 401 for all three verification failure
		// modes; the specific cause stays in the logs.
		s.logger.WithError(err).WithField("cause", verificationCause(err)).Error("Identity token verification failed")
		return nil, errors.NewAuthenticationError("Invalid or expired Firebase token", err)
	}

	fetchCtx, cancelFetch := context.WithTimeout(ctx, externalCallTimeout)
	defer cancelFetch()

	// The live record is canonical; it may be fresher than the token claims.
	user, err := s.identity.GetUser(fetchCtx, claims.UID)
	if err != nil {
		s.logger.WithError(err).WithField("uid", claims.UID).Error("Verified token but account lookup failed")
		return nil, errors.NewNotFoundError("User not found")
	}

	s.upsertProfile(ctx, claims.UID, map[string]interface{}{
		"email":         user.Email,
		"displayName":   mergedDisplayName(hints, user),
		"lastLogin":     claims.AuthTime,
		"emailVerified": user.EmailVerified,
	})

	principal := &domain.Principal{
		UID:           claims.UID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
	}

	token, err := s.sessions.Issue(principal)
	if err != nil {
		s.logger.WithError(err).Error("Session token issuance failed")
		return nil, errors.NewInternalError("JWT generation failed", err)
	}

	s.logger.WithField("uid", claims.UID).Info("Session exchange completed")

	return &domain.SessionResult{
		Token:         token,
		UID:           claims.UID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
	}, nil
}

// upsertProfile mirrors profile fields into the document store. Failures are
// logged and swallowed: the identity side already succeeded and the caller
// should still receive a usable result.
func (s *Service) upsertProfile(ctx context.Context, uid string, fields map[string]interface{}) {
	upsertCtx, cancel := context.WithTimeout(ctx, externalCallTimeout)
	defer cancel()

	if err := s.profiles.Upsert(upsertCtx, uid, fields); err != nil {
		s.logger.WithError(err).WithField("uid", uid).Error("Profile upsert failed, continuing")
	}
}

// mergedDisplayName prefers the client hint, then the canonical record.
func mergedDisplayName(hints *domain.ProfileHints, user *domain.IdentityUser) string {
	if hints != nil && hints.DisplayName != "" {
		return hints.DisplayName
	}
	return user.DisplayName
}

// verificationCause names the identity verification failure mode for logs.
func verificationCause(err error) string {
	switch {
	case stderrors.Is(err, service.ErrIdentityTokenExpired):
		return "expired"
	case stderrors.Is(err, service.ErrIdentityTokenRevoked):
		return "revoked"
	case stderrors.Is(err, service.ErrIdentityTokenInvalid):
		return "invalid"
	default:
		return "unknown"
	}
}
