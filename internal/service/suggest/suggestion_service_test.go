package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeassist-be/internal/config"
	"codeassist-be/internal/domain"
	"codeassist-be/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "development")
	require.NoError(t, err)
	return log
}

func downstreamService(t *testing.T, url string) *Service {
	t.Helper()
	return &Service{
		httpClient:    &http.Client{Timeout: 2 * time.Second},
		downstreamURL: url,
		logger:        testLogger(t),
	}
}

func TestGenerateFromDownstreamSuccess(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.SuggestionResult{
			Suggestions: []domain.Suggestion{
				{Message: "Prefer const over let", Line: 2},
			},
			Explanation: "Minor style issues only.",
		})
	}))
	defer server.Close()

	svc := downstreamService(t, server.URL)

	lintReport := []domain.LintIssue{{RuleID: "prefer-const", Severity: "warning", Message: "use const", Line: 2}}
	result := svc.Generate(context.Background(), "let x = 1", "javascript", lintReport)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Prefer const over let", result.Suggestions[0].Message)
	assert.Equal(t, "Minor style issues only.", result.Explanation)

	require.NotNil(t, result.Metadata)
	assert.Equal(t, "ok", result.Metadata.Status)
	assert.Equal(t, downstreamModel, result.Metadata.Model)

	// The downstream request carries the full payload and the fixed model name.
	assert.Equal(t, "let x = 1", received["code"])
	assert.Equal(t, "javascript", received["language"])
	assert.Equal(t, downstreamModel, received["model"])
	assert.NotNil(t, received["lintReport"])
}

func TestGenerateFromDownstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := downstreamService(t, server.URL)
	result := svc.Generate(context.Background(), "let x = 1", "javascript", nil)

	assert.Empty(t, result.Suggestions)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "error", result.Metadata.Status)
	assert.Contains(t, result.Metadata.Details, "503")
}

func TestGenerateFromDownstreamUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc := downstreamService(t, server.URL)
	result := svc.Generate(context.Background(), "let x = 1", "javascript", nil)

	assert.Empty(t, result.Suggestions)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "error", result.Metadata.Status)
	assert.NotEmpty(t, result.Metadata.Details)
}

func TestGenerateFromDownstreamNormalizesNilSuggestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"explanation":"nothing to improve"}`))
	}))
	defer server.Close()

	svc := downstreamService(t, server.URL)
	result := svc.Generate(context.Background(), "let x = 1", "javascript", nil)

	require.NotNil(t, result.Suggestions)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, "nothing to improve", result.Explanation)
}

func TestNewServicePicksGenerator(t *testing.T) {
	log := testLogger(t)

	withKey := NewService(&config.Config{
		OpenAIAPIKey:      "sk-test",
		OpenAIModel:       "gpt-4o",
		SuggestionTimeout: time.Second,
	}, log).(*Service)
	assert.True(t, withKey.useOpenAI)

	withoutKey := NewService(&config.Config{
		SuggestionServiceURL: "http://localhost:8000/api/generate",
		SuggestionTimeout:    time.Second,
	}, log).(*Service)
	assert.False(t, withoutKey.useOpenAI)
}

func TestBuildPrompt(t *testing.T) {
	lintReport := []domain.LintIssue{{RuleID: "no-unused-vars", Severity: "warning", Message: "x is unused", Line: 1}}
	prompt := buildPrompt("const x = 1", "javascript", lintReport)

	assert.Contains(t, prompt, "TASK: Provide suggestions & improvements")
	assert.Contains(t, prompt, "LANGUAGE: javascript")
	assert.Contains(t, prompt, "LINT REPORT:")
	assert.Contains(t, prompt, "no-unused-vars")
	assert.Contains(t, prompt, "const x = 1")

	withoutReport := buildPrompt("const x = 1", "javascript", nil)
	assert.NotContains(t, withoutReport, "LINT REPORT:")
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain json", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  {\"a\":1}\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}

func TestDegradedResult(t *testing.T) {
	result := degradedResult("connection refused")

	require.NotNil(t, result.Suggestions)
	assert.Empty(t, result.Suggestions)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "error", result.Metadata.Status)
	assert.Equal(t, "connection refused", result.Metadata.Details)
}
