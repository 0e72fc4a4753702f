package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeassist-be/internal/domain"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "development")
	require.NoError(t, err)
	return log
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{
		UID:           "uid-123",
		Email:         "alice@example.com",
		DisplayName:   "Alice",
		EmailVerified: true,
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", time.Hour, testLogger(t))

	token, err := svc.Issue(testPrincipal())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "uid-123", principal.UID)
	assert.Equal(t, "alice@example.com", principal.Email)
	assert.Equal(t, "Alice", principal.DisplayName)
	assert.True(t, principal.EmailVerified)
	assert.WithinDuration(t, time.Now().Add(time.Hour), principal.ExpiresAt, time.Minute)
}

func TestIssueFailsWithoutSecret(t *testing.T) {
	svc := NewService("", time.Hour, testLogger(t))

	_, err := svc.Issue(testPrincipal())
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour, testLogger(t))
	verifier := NewService("secret-b", time.Hour, testLogger(t))

	token, err := issuer.Issue(testPrincipal())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrSessionMalformed)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewService("test-secret", time.Hour, testLogger(t))
	issuer.now = func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}

	token, err := issuer.Issue(testPrincipal())
	require.NoError(t, err)

	verifier := NewService("test-secret", time.Hour, testLogger(t))
	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrSessionExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour, testLogger(t))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "not-a-token"},
		{name: "truncated jwt", token: "eyJhbGciOiJIUzI1NiJ9.eyJ1aWQiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrSessionMalformed)
		})
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	svc := NewService("test-secret", time.Hour, testLogger(t))

	token, err := svc.Issue(testPrincipal())
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = svc.Verify(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrSessionMalformed)
}
