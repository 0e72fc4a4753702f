package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"codeassist-be/internal/config"
	"codeassist-be/internal/container"
	"codeassist-be/internal/domain"
	"codeassist-be/internal/middleware"
	"codeassist-be/internal/repository"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/logger"
)

type fakeIdentity struct {
	verifyClaims *domain.IdentityClaims
	verifyErr    error
	user         *domain.IdentityUser
	getErr       error
	created      *domain.IdentityUser
	createErr    error
}

func (f *fakeIdentity) VerifyIDToken(ctx context.Context, idToken string) (*domain.IdentityClaims, error) {
	return f.verifyClaims, f.verifyErr
}

func (f *fakeIdentity) GetUser(ctx context.Context, uid string) (*domain.IdentityUser, error) {
	return f.user, f.getErr
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password, displayName string) (*domain.IdentityUser, error) {
	return f.created, f.createErr
}

type fakeProfiles struct {
	profile *domain.UserProfile
	getErr  error
}

func (f *fakeProfiles) Upsert(ctx context.Context, uid string, fields map[string]interface{}) error {
	return nil
}

func (f *fakeProfiles) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	return f.profile, f.getErr
}

var (
	_ service.IdentityProvider     = (*fakeIdentity)(nil)
	_ repository.ProfileRepository = (*fakeProfiles)(nil)
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "development")
	require.NoError(t, err)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                 "8080",
		Environment:          "development",
		JWTSecret:            "test-secret",
		JWTExpiresIn:         time.Hour,
		SuggestionServiceURL: "http://127.0.0.1:1/api/generate",
		SuggestionTimeout:    time.Second,
		OpenAIModel:          "gpt-4o",
	}
}

func newTestContainer(t *testing.T, cfg *config.Config, identity *fakeIdentity, profiles *fakeProfiles) *container.Container {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	if identity == nil {
		identity = &fakeIdentity{}
	}
	if profiles == nil {
		profiles = &fakeProfiles{}
	}
	return container.New(cfg, testLogger(t), identity, profiles, nil)
}

func withPrincipal(req *http.Request, principal *domain.Principal) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.PrincipalContextKey, principal)
	return req.WithContext(ctx)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{
		UID:           "uid-123",
		Email:         "alice@example.com",
		DisplayName:   "Alice",
		EmailVerified: true,
	}
}

// errProfileStore is a stand-in failure for profile lookups.
var errProfileStore = stderrors.New("profile store unavailable")
