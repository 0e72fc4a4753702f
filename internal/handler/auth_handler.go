package handler

import (
	"encoding/json"
	"net/http"

	"codeassist-be/internal/container"
	"codeassist-be/internal/domain"
	"codeassist-be/internal/middleware"
	"codeassist-be/pkg/errors"
)

// AuthHandler handles registration, session exchange and logout
type AuthHandler struct {
	container *container.Container
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(container *container.Container) *AuthHandler {
	return &AuthHandler{
		container: container,
	}
}

// RegisterResponse is the body returned by POST /auth/register
type RegisterResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Message     string `json:"message"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("Invalid JSON payload"), logger)
		return
	}

	result, err := h.container.GetAuthService().Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		UID:         result.UID,
		Email:       result.Email,
		DisplayName: result.DisplayName,
		Message:     "User registered successfully",
	}, logger)
}

// ExchangeSession handles POST /auth/session
func (h *AuthHandler) ExchangeSession(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req domain.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("Invalid JSON payload"), logger)
		return
	}

	result, err := h.container.GetAuthService().ExchangeSession(r.Context(), req.IDToken, req.Profile)
	if err != nil {
		writeServiceError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, result, logger)
}

// Logout handles POST /auth/logout. Session tokens are never invalidated
// server-side; logout is a client-side token discard.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	}, h.container.GetLogger())
}

// ProfileResponse is the body returned by GET /user/profile
type ProfileResponse struct {
	User    *domain.Principal   `json:"user"`
	Profile *domain.UserProfile `json:"profile,omitempty"`
}

// GetProfile handles GET /user/profile. The principal comes from the signed
// session token; the stored profile document is attached when available.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		logger.Error("Principal not found in context")
		writeError(w, errors.NewAuthenticationError("User not authenticated", nil), logger)
		return
	}

	response := ProfileResponse{User: principal}

	profile, err := h.container.GetProfileRepository().Get(r.Context(), principal.UID)
	if err != nil {
		logger.WithError(err).WithField("uid", principal.UID).Warn("Profile lookup failed, returning principal only")
	} else {
		response.Profile = profile
	}

	writeJSON(w, http.StatusOK, response, logger)
}
