package handler

import (
	"encoding/json"
	"net/http"

	"codeassist-be/internal/container"
	"codeassist-be/internal/domain"
	"codeassist-be/internal/middleware"
	"codeassist-be/pkg/errors"
)

// SuggestHandler handles suggestion requests
type SuggestHandler struct {
	container *container.Container
}

// NewSuggestHandler creates a new suggest handler
func NewSuggestHandler(container *container.Container) *SuggestHandler {
	return &SuggestHandler{
		container: container,
	}
}

// SuggestResponse is the body returned by POST /suggest
type SuggestResponse struct {
	Suggestions *domain.SuggestionResult `json:"suggestions"`
	User        *domain.Principal        `json:"user"`
}

// Suggest handles POST /suggest. Generator failures degrade to an empty
// suggestion list with error metadata rather than failing the request.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		logger.Error("Principal not found in context")
		writeError(w, errors.NewAuthenticationError("User not authenticated", nil), logger)
		return
	}

	var req domain.SuggestRequest
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

	result := h.container.GetSuggestionService().Generate(r.Context(), req.Code, req.Language, req.LintReport)

	logger.WithFields(map[string]interface{}{
		"uid":      principal.UID,
		"language": req.Language,
		"status":   result.Metadata.Status,
	}).Info("Suggestions generated")

	writeJSON(w, http.StatusOK, SuggestResponse{
		Suggestions: result,
		User:        principal,
	}, logger)
}
