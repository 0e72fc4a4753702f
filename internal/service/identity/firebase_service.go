package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"codeassist-be/internal/config"
	"codeassist-be/internal/domain"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/logger"
)

// NewFirebaseApp builds the process-wide Firebase app handle. Credentials
// come from a service-account file path or inline JSON; one of the two must
// be configured. The returned app and the clients derived from it are safe
// for concurrent use and are built exactly once at startup.
func NewFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	var credentials option.ClientOption
	switch {
	case cfg.FirebaseCredentialsJSON != "":
		credentials = option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON))
	case cfg.FirebaseCredentialsPath != "":
		credentials = option.WithCredentialsFile(cfg.FirebaseCredentialsPath)
	default:
		return nil, fmt.Errorf("firebase credentials missing: set FIREBASE_CREDENTIALS_PATH or FIREBASE_CREDENTIALS")
	}

	app, err := firebase.NewApp(ctx, nil, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to build Firebase app: %w", err)
	}
	return app, nil
}

// Service adapts the Firebase Auth client to the IdentityProvider interface
type Service struct {
	client *firebaseauth.Client
	logger *logger.Logger
}

// NewService creates a new identity provider adapter
func NewService(client *firebaseauth.Client, logger *logger.Logger) service.IdentityProvider {
	return &Service{
		client: client,
		logger: logger,
	}
}

// VerifyIDToken validates a Firebase ID token, distinguishing invalid,
// expired and revoked tokens so the exchange flow can log the exact cause.
func (s *Service) VerifyIDToken(ctx context.Context, idToken string) (*domain.IdentityClaims, error) {
	token, err := s.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		switch {
		case firebaseauth.IsIDTokenExpired(err):
			return nil, fmt.Errorf("%w: %v", service.ErrIdentityTokenExpired, err)
		case firebaseauth.IsIDTokenRevoked(err):
			return nil, fmt.Errorf("%w: %v", service.ErrIdentityTokenRevoked, err)
		default:
			return nil, fmt.Errorf("%w: %v", service.ErrIdentityTokenInvalid, err)
		}
	}

	claims := &domain.IdentityClaims{
		UID:           token.UID,
		Email:         claimString(token.Claims, "email"),
		DisplayName:   claimString(token.Claims, "name"),
		EmailVerified: claimBool(token.Claims, "email_verified"),
		AuthTime:      token.AuthTime,
	}

	s.logger.WithField("uid", claims.UID).Debug("Firebase ID token verified")
	return claims, nil
}

// GetUser fetches the canonical user record for a verified subject
func (s *Service) GetUser(ctx context.Context, uid string) (*domain.IdentityUser, error) {
	record, err := s.client.GetUser(ctx, uid)
	if err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return nil, fmt.Errorf("%w: %v", service.ErrIdentityUserNotFound, err)
		}
		return nil, fmt.Errorf("failed to get user %q: %w", uid, err)
	}

	return recordToUser(record), nil
}

// CreateUser creates a new Firebase Auth account
func (s *Service) CreateUser(ctx context.Context, email, password, displayName string) (*domain.IdentityUser, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := s.client.CreateUser(ctx, params)
	if err != nil {
		if firebaseauth.IsEmailAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %v", service.ErrIdentityEmailExists, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("uid", record.UID).Info("Firebase user created")
	return recordToUser(record), nil
}

func recordToUser(record *firebaseauth.UserRecord) *domain.IdentityUser {
	user := &domain.IdentityUser{
		UID:           record.UID,
		Email:         record.Email,
		DisplayName:   record.DisplayName,
		EmailVerified: record.EmailVerified,
	}
	if record.UserMetadata != nil && record.UserMetadata.CreationTimestamp > 0 {
		user.CreatedAt = time.UnixMilli(record.UserMetadata.CreationTimestamp).UTC()
	}
	return user
}

func claimString(claims map[string]interface{}, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func claimBool(claims map[string]interface{}, key string) bool {
	if val, ok := claims[key].(bool); ok {
		return val
	}
	return false
}
