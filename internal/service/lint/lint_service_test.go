package lint

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeassist-be/internal/domain"
	"codeassist-be/pkg/logger"
	"codeassist-be/pkg/redis"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "development")
	require.NoError(t, err)
	return log
}

func testCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "development", testLogger(t).Logger)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestRunServesCachedReport(t *testing.T) {
	cache, _ := testCache(t)
	svc := &Service{cache: cache, logger: testLogger(t)}

	cached := []domain.LintIssue{
		{RuleID: "no-unused-vars", Severity: "warning", Message: "x is unused", Line: 3},
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	key := cache.KeyBuilder.KeyLintReport(payloadHash("const x = 1", "javascript"))
	require.NoError(t, cache.Set(context.Background(), key, string(data), redis.TTLLintReport))

	report := svc.Run(context.Background(), "const x = 1", "javascript")
	assert.Equal(t, cached, report)
}

func TestRunIgnoresCorruptedCacheEntry(t *testing.T) {
	cache, _ := testCache(t)
	svc := &Service{cache: cache, logger: testLogger(t)}

	key := cache.KeyBuilder.KeyLintReport(payloadHash("const x = 1", "javascript"))
	require.NoError(t, cache.Set(context.Background(), key, "{not json", redis.TTLLintReport))

	// A corrupted entry falls through to a fresh tool run; the result is a
	// real report or the placeholder, never the garbage.
	report := svc.Run(context.Background(), "const x = 1", "javascript")
	require.NotEmpty(t, report)
}

func TestFallbackReport(t *testing.T) {
	svc := &Service{logger: testLogger(t)}

	report := svc.fallbackReport("eslint: command not found")
	require.Len(t, report, 1)

	issue := report[0]
	assert.Equal(t, "no-console", issue.RuleID)
	assert.Equal(t, "warning", issue.Severity)
	assert.Equal(t, "Placeholder lint run. Install ESLint/Pylint on server.", issue.Message)
	assert.Equal(t, 42, issue.Line)
	assert.Equal(t, "eslint: command not found", issue.Details)
}

func TestLintCommandSelection(t *testing.T) {
	name, args := lintCommand("python", "snippet.py")
	assert.Equal(t, "pylint", name)
	assert.Contains(t, args, "snippet.py")
	assert.Contains(t, args, "--disable=all")

	name, args = lintCommand("javascript", "snippet.js")
	assert.Equal(t, "eslint", name)
	assert.Equal(t, []string{"snippet.js", "--format", "json"}, args)

	// Unknown languages get the JavaScript toolchain.
	name, _ = lintCommand("typescript", "snippet.js")
	assert.Equal(t, "eslint", name)
}

func TestSuffixFor(t *testing.T) {
	assert.Equal(t, ".py", suffixFor("python"))
	assert.Equal(t, ".js", suffixFor("javascript"))
	assert.Equal(t, ".js", suffixFor("anything-else"))
}

func TestPayloadHash(t *testing.T) {
	a := payloadHash("const x = 1", "javascript")
	b := payloadHash("const x = 1", "javascript")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, payloadHash("const x = 2", "javascript"))
	assert.NotEqual(t, a, payloadHash("const x = 1", "python"))
	assert.Len(t, a, 64)
}
