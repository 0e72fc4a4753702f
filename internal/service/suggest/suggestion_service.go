package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"codeassist-be/internal/config"
	"codeassist-be/internal/domain"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/logger"
)

const downstreamModel = "codet5-small"

const systemPrompt = "You are a senior software engineer reviewing code. " +
	"You will receive code with an optional lint report and must reply STRICTLY in JSON " +
	`with fields: suggestions (array of {title, message, snippet, line}) and explanation.`

// Service generates improvement suggestions for submitted code. The
// generator is fixed at startup: an OpenAI-backed generator when an API key
// is configured, otherwise the downstream suggestion microservice.
type Service struct {
	useOpenAI     bool
	openaiClient  openai.Client
	model         string
	httpClient    *http.Client
	downstreamURL string
	logger        *logger.Logger
}

// NewService creates a new suggestion service
func NewService(cfg *config.Config, logger *logger.Logger) service.SuggestionService {
	httpClient := &http.Client{
		Timeout: cfg.SuggestionTimeout,
	}

	s := &Service{
		httpClient:    httpClient,
		downstreamURL: cfg.SuggestionServiceURL,
		model:         cfg.OpenAIModel,
		logger:        logger,
	}

	if cfg.OpenAIAPIKey != "" {
		s.useOpenAI = true
		s.openaiClient = openai.NewClient(
			option.WithAPIKey(cfg.OpenAIAPIKey),
			option.WithHTTPClient(httpClient),
		)
		logger.WithField("model", cfg.OpenAIModel).Info("Suggestion service using OpenAI generator")
	} else {
		logger.WithField("url", cfg.SuggestionServiceURL).Info("Suggestion service using downstream generator")
	}

	return s
}

// Generate returns suggestions for the code. A downstream failure degrades
// to an empty suggestion list with error metadata; the request itself still
// succeeds.
func (s *Service) Generate(ctx context.Context, code, language string, lintReport []domain.LintIssue) *domain.SuggestionResult {
	if s.useOpenAI {
		return s.generateWithOpenAI(ctx, code, language, lintReport)
	}
	return s.generateFromDownstream(ctx, code, language, lintReport)
}

func (s *Service) generateWithOpenAI(ctx context.Context, code, language string, lintReport []domain.LintIssue) *domain.SuggestionResult {
	prompt := buildPrompt(code, language, lintReport)

	resp, err := s.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		s.logger.WithError(err).Error("OpenAI suggestion request failed")
		return degradedResult(err.Error())
	}
	if len(resp.Choices) == 0 {
		s.logger.Error("OpenAI response contained no choices")
		return degradedResult("no choices in response")
	}

	raw := resp.Choices[0].Message.Content

	var result domain.SuggestionResult
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &result); err != nil {
		s.logger.WithError(err).Error("Failed to parse OpenAI suggestion response")
		return degradedResult(fmt.Sprintf("bad response from model: %v", err))
	}
	if result.Suggestions == nil {
		result.Suggestions = []domain.Suggestion{}
	}
	result.Metadata = &domain.SuggestionMetadata{
		Status: "ok",
		Model:  s.model,
	}
	return &result
}

func (s *Service) generateFromDownstream(ctx context.Context, code, language string, lintReport []domain.LintIssue) *domain.SuggestionResult {
	payload := map[string]interface{}{
		"code":       code,
		"language":   language,
		"lintReport": lintReport,
		"model":      downstreamModel,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return degradedResult(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.downstreamURL, bytes.NewReader(body))
	if err != nil {
		return degradedResult(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Suggestion service request failed")
		return degradedResult(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"body":        string(detail),
		}).Error("Suggestion service returned error status")
		return degradedResult(fmt.Sprintf("suggestion service returned %d", resp.StatusCode))
	}

	var result domain.SuggestionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.logger.WithError(err).Error("Failed to decode suggestion service response")
		return degradedResult(err.Error())
	}
	if result.Suggestions == nil {
		result.Suggestions = []domain.Suggestion{}
	}
	if result.Metadata == nil {
		result.Metadata = &domain.SuggestionMetadata{
			Status: "ok",
			Model:  downstreamModel,
		}
	}
	return &result
}

// degradedResult is returned when no generator produced a usable answer
func degradedResult(details string) *domain.SuggestionResult {
	return &domain.SuggestionResult{
		Suggestions: []domain.Suggestion{},
		Metadata: &domain.SuggestionMetadata{
			Status:  "error",
			Details: details,
		},
	}
}

// buildPrompt renders the user message sent to the model
func buildPrompt(code, language string, lintReport []domain.LintIssue) string {
	var b strings.Builder
	b.WriteString("TASK: Provide suggestions & improvements\n")
	b.WriteString("LANGUAGE: " + language + "\n")
	if len(lintReport) > 0 {
		b.WriteString("LINT REPORT:\n")
		if data, err := json.Marshal(lintReport); err == nil {
			b.Write(data)
			b.WriteString("\n")
		}
	}
	b.WriteString("CODE:\n")
	b.WriteString(code)
	return b.String()
}

// stripCodeFences removes a markdown code fence wrapper some models emit
// despite the JSON response format.
func stripCodeFences(raw string) string {
	out := strings.TrimSpace(raw)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
