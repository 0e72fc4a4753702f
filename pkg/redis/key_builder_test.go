package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilderPrefix(t *testing.T) {
	tests := []struct {
		environment string
		want        string
	}{
		{environment: "production", want: "prod"},
		{environment: "development", want: "staging"},
		{environment: "staging", want: "staging"},
		{environment: "", want: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.want, kb.GetPrefix())
		})
	}
}

func TestKeyFormats(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:lint:report:abc123", kb.KeyLintReport("abc123"))
	assert.Equal(t, "prod:custom:key", kb.BuildKey("custom:key"))
}
