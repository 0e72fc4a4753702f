package handler

import (
	"encoding/json"
	"net/http"

	"codeassist-be/internal/container"
	"codeassist-be/internal/domain"
	"codeassist-be/internal/middleware"
	"codeassist-be/pkg/errors"
)

const defaultLanguage = "javascript"

// LintHandler handles lint requests
type LintHandler struct {
	container *container.Container
}

// NewLintHandler creates a new lint handler
func NewLintHandler(container *container.Container) *LintHandler {
	return &LintHandler{
		container: container,
	}
}

// LintResponse is the body returned by POST /lint
type LintResponse struct {
	LintReport []domain.LintIssue `json:"lintReport"`
	User       *domain.Principal  `json:"user"`
}

// Lint handles POST /lint
func (h *LintHandler) Lint(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		logger.Error("Principal not found in context")
		writeError(w, errors.NewAuthenticationError("User not authenticated", nil), logger)
		return
	}

	var req domain.LintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("Code payload is required."), logger)
		return
	}
	if req.Code == "" {
		writeError(w, errors.NewValidationError("Code payload is required."), logger)
		return
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}

	report := h.container.GetLintService().Run(r.Context(), req.Code, req.Language)

	logger.WithFields(map[string]interface{}{
		"uid":      principal.UID,
		"language": req.Language,
		"issues":   len(report),
	}).Info("Lint completed")

	writeJSON(w, http.StatusOK, LintResponse{
		LintReport: report,
		User:       principal,
	}, logger)
}
