package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"anthropic with key", func(c *Config) { c.Anthropic.APIKey = "k" }, false},
		{"anthropic without key", func(c *Config) {}, true},
		{"openai with key", func(c *Config) { c.Provider = "openai"; c.OpenAI.APIKey = "k" }, false},
		{"openai without key", func(c *Config) { c.Provider = "openai" }, true},
		{"gemini without key", func(c *Config) { c.Provider = "gemini" }, true},
		{"openrouter without key", func(c *Config) { c.Provider = "openrouter" }, true},
		{"mock needs no key", func(c *Config) { c.Provider = "mock" }, false},
		{"unknown provider", func(c *Config) { c.Provider = "bedrock" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("COTEACHER_LLM_PROVIDER", "openrouter")
	t.Setenv("COTEACHER_OPENROUTER_API_KEY", "or-key")
	t.Setenv("COTEACHER_OPENROUTER_MODEL", "meta-llama/llama-3.3-70b")
	t.Setenv("ANTHROPIC_API_KEY", "fallback-key")
	t.Setenv("COTEACHER_ANTHROPIC_API_KEY", "")
	t.Setenv("COTEACHER_ANTHROPIC_MODEL", "")

	cfg := ConfigFromEnv()

	assert.Equal(t, "openrouter", cfg.Provider)
	assert.Equal(t, "or-key", cfg.OpenRouter.APIKey)
	assert.Equal(t, "meta-llama/llama-3.3-70b", cfg.OpenRouter.Model)

	// Unset fields keep their defaults; standard key names fill the gaps.
	assert.Equal(t, "fallback-key", cfg.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.Anthropic.Model)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 120*time.Second, cfg.Timeout)

	require.NoError(t, cfg.Validate())
}

func TestConfigFromEnvPrefersScopedKeys(t *testing.T) {
	t.Setenv("COTEACHER_ANTHROPIC_API_KEY", "scoped")
	t.Setenv("ANTHROPIC_API_KEY", "ambient")

	cfg := ConfigFromEnv()
	assert.Equal(t, "scoped", cfg.Anthropic.APIKey)
}
