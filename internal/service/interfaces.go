package service

import (
	"context"
	"errors"

	"codeassist-be/internal/domain"
)

// Identity provider failure modes. The exchange flow collapses the first
// three into one client-visible 401 but logs the specific cause.
var (
	ErrIdentityTokenInvalid = errors.New("identity token invalid")
	ErrIdentityTokenExpired = errors.New("identity token expired")
	ErrIdentityTokenRevoked = errors.New("identity token revoked")
	ErrIdentityUserNotFound = errors.New("identity user not found")
	ErrIdentityEmailExists  = errors.New("email already registered with identity provider")
)

// Session verification failure modes, distinguished for logging; both map to
// 401 at the gate.
var (
	ErrSessionExpired   = errors.New("session token expired")
	ErrSessionMalformed = errors.New("session token malformed")
)

// IdentityProvider verifies identity assertions and manages accounts at the
// external identity provider (Firebase Auth).
type IdentityProvider interface {
	// VerifyIDToken validates an externally-issued ID token and returns the
	// verified claim set. Fails with ErrIdentityTokenInvalid,
	// ErrIdentityTokenExpired or ErrIdentityTokenRevoked.
	VerifyIDToken(ctx context.Context, idToken string) (*domain.IdentityClaims, error)

	// GetUser fetches the canonical user record for a verified subject.
	// Fails with ErrIdentityUserNotFound if the account is gone.
	GetUser(ctx context.Context, uid string) (*domain.IdentityUser, error)

	// CreateUser creates a new account at the provider. Fails with
	// ErrIdentityEmailExists when the email is already registered.
	CreateUser(ctx context.Context, email, password, displayName string) (*domain.IdentityUser, error)
}

// SessionService mints and verifies the gateway's own session tokens.
type SessionService interface {
	// Issue mints a signed, time-limited session token for the principal.
	// Pure token construction; never touches the profile store.
	Issue(principal *domain.Principal) (string, error)

	// Verify validates a session token against the active signing secret.
	// Fails with ErrSessionExpired or ErrSessionMalformed. No store
	// round-trip: the signed payload is trusted as-is.
	Verify(token string) (*domain.Principal, error)
}

// AuthService orchestrates registration and the identity-to-session exchange.
type AuthService interface {
	// Register creates a provider account and seeds the profile mirror.
	Register(ctx context.Context, email, password, displayName string) (*domain.RegisterResult, error)

	// ExchangeSession converts a verified identity token into a session
	// token plus a best-effort profile upsert.
	ExchangeSession(ctx context.Context, idToken string, hints *domain.ProfileHints) (*domain.SessionResult, error)
}

// LintService runs static analysis over a code payload.
type LintService interface {
	// Run lints the code and returns a report. Tool failures degrade to a
	// placeholder report instead of an error.
	Run(ctx context.Context, code, language string) []domain.LintIssue
}

// SuggestionService generates improvement suggestions for a code payload.
type SuggestionService interface {
	// Generate returns suggestions for the code. Downstream failures
	// degrade to an empty result with error metadata.
	Generate(ctx context.Context, code, language string, lintReport []domain.LintIssue) *domain.SuggestionResult
}

// Services aggregates all service interfaces
type Services struct {
	Auth       AuthService
	Session    SessionService
	Lint       LintService
	Suggestion SuggestionService
}
