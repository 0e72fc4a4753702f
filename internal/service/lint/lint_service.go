package lint

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"codeassist-be/internal/domain"
	"codeassist-be/internal/service"
	"codeassist-be/pkg/logger"
	"codeassist-be/pkg/redis"
)

// Service runs language-specific lint tooling over submitted code. When the
// CLI tool is unavailable or fails without output, it degrades to a
// placeholder report carrying the failure detail.
type Service struct {
	cache  *redis.Client // optional; nil disables caching
	logger *logger.Logger
}

// NewService creates a new lint service
func NewService(cache *redis.Client, logger *logger.Logger) service.LintService {
	return &Service{
		cache:  cache,
		logger: logger,
	}
}

// Run lints the code, serving repeated submissions of the same payload from
// cache. Cache failures never fail the request.
func (s *Service) Run(ctx context.Context, code, language string) []domain.LintIssue {
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.KeyBuilder.KeyLintReport(payloadHash(code, language))
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var report []domain.LintIssue
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				s.logger.Debug("Lint report cache hit")
				return report
			}
			s.logger.WithError(err).Warn("Lint cache corrupted, re-running tool")
		}
	}

	report := s.runTool(ctx, code, language)

	if s.cache != nil {
		go s.cacheReport(cacheKey, report)
	}

	return report
}

// runTool writes the code to a temp file and executes the lint command for
// the language.
func (s *Service) runTool(ctx context.Context, code, language string) []domain.LintIssue {
	file, err := os.CreateTemp("", "lint-*"+suffixFor(language))
	if err != nil {
		return s.fallbackReport(err.Error())
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(code); err != nil {
		file.Close()
		return s.fallbackReport(err.Error())
	}
	if err := file.Close(); err != nil {
		return s.fallbackReport(err.Error())
	}

	name, args := lintCommand(language, filepath.Base(file.Name()))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = filepath.Dir(file.Name())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Lint tools exit non-zero when they find issues; only a run that
	// produced no output at all counts as a tool failure.
	if err := cmd.Run(); err != nil && stdout.Len() == 0 {
		detail := stderr.String()
		if detail == "" {
			detail = err.Error()
		}
		s.logger.WithError(err).WithField("tool", name).Warn("Lint tool unavailable, returning placeholder report")
		return s.fallbackReport(detail)
	}

	message := stdout.String()
	if message == "" {
		message = "Lint completed with warnings."
	}

	return []domain.LintIssue{
		{
			RuleID:   "process",
			Severity: "info",
			Message:  message,
			Line:     1,
		},
	}
}

// fallbackReport is the placeholder issue returned when no lint tool ran
func (s *Service) fallbackReport(details string) []domain.LintIssue {
	return []domain.LintIssue{
		{
			RuleID:   "no-console",
			Severity: "warning",
			Message:  "Placeholder lint run. Install ESLint/Pylint on server.",
			Line:     42,
			Details:  details,
		},
	}
}

func (s *Service) cacheReport(key string, report []domain.LintIssue) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(report)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal lint report for caching")
		return
	}
	if err := s.cache.Set(ctx, key, string(data), redis.TTLLintReport); err != nil {
		s.logger.WithError(err).Warn("Failed to cache lint report")
	}
}

// lintCommand selects the tool invocation for a language
func lintCommand(language, fileName string) (string, []string) {
	if language == "python" {
		return "pylint", []string{fileName, "--disable=all", "--enable=unused-import,unused-variable,bad-indentation"}
	}
	return "eslint", []string{fileName, "--format", "json"}
}

// suffixFor picks the temp file extension the lint tool expects
func suffixFor(language string) string {
	if language == "python" {
		return ".py"
	}
	return ".js"
}

// payloadHash keys cache entries by code content and language
func payloadHash(code, language string) string {
	sum := sha256.Sum256([]byte(language + "\x00" + code))
	return hex.EncodeToString(sum[:])
}
