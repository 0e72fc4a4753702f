package middleware

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"codeassist-be/internal/domain"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/errors"
	"codeassist-be/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// PrincipalContextKey is the key for the authenticated principal in context
	PrincipalContextKey ContextKey = "principal"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// Gate rejection variants. All map to 401 for the client; the variant is
// logged so failure modes stay distinguishable in diagnostics.
const (
	gateMissingCredential   = "missing_credential"
	gateMalformedCredential = "malformed_credential"
	gateExpiredCredential   = "expired_credential"
)

// Auth creates the session-verifying gate. It runs before every protected
// handler and short-circuits with a 401 on any failure; the downstream
// handler is never invoked with an unverified request.
func Auth(sessions service.SessionService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WithField("reason", gateMissingCredential).Warn("Request rejected by auth gate")
				writeErrorResponse(w, errors.NewAuthenticationError("Missing Authorization header", nil), logger)
				return
			}

			principal, err := sessions.Verify(token)
			if err != nil {
				reason := gateMalformedCredential
				if stderrors.Is(err, service.ErrSessionExpired) {
					reason = gateExpiredCredential
				}
				logger.WithError(err).WithField("reason", reason).Warn("Request rejected by auth gate")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token", err), logger)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
			r = r.WithContext(ctx)

			logger.WithField("uid", principal.UID).Debug("Request authenticated")

			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext returns the authenticated principal set by the gate
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(PrincipalContextKey).(*domain.Principal)
	return principal, ok
}

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := generateRequestID()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// generateRequestID generates a simple request ID
func generateRequestID() string {
	return fmt.Sprintf("%d-%d", time.Now().Unix(), time.Now().Nanosecond())
}

// writeErrorResponse writes a flat {"error": ...} body with the mapped status
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": appErr.Message}); err != nil {
		logger.WithError(err).Error("Failed to encode error response")
	}
}
