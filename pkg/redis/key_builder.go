package redis

import "fmt"

// Cache key patterns
const (
	KeyLintReport = "lint:report:%s" // lint:report:{payloadHash}
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyLintReport builds the cache key for a lint report of a code payload
func (kb *KeyBuilder) KeyLintReport(payloadHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeyLintReport, payloadHash))
}
