package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.3, cfg.Retrieval.MinScore, 1e-9)
	assert.Equal(t, 4000, cfg.Prompt.ContextBudgetChars)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Generation.BaseDelay)
	assert.Equal(t, "stub", cfg.Providers.EmbeddingProvider)
	assert.Equal(t, "stub", cfg.Providers.GenerationProvider)
	assert.False(t, cfg.IsProduction())
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RETRIEVAL_TOP_K", "10")
	t.Setenv("RETRIEVAL_MIN_SCORE", "0.5")
	t.Setenv("GENERATION_RETRY_BASE_DELAY", "1s")
	t.Setenv("GENERATION_MODEL", "claude-3-haiku")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.5, cfg.Retrieval.MinScore, 1e-9)
	assert.Equal(t, time.Second, cfg.Generation.BaseDelay)
	assert.Equal(t, "claude-3-haiku", cfg.Generation.Model)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "development",
			Index:       IndexConfig{Dimension: 384},
			Retrieval:   RetrievalConfig{TopK: 5},
			Prompt:      PromptConfig{ContextBudgetChars: 4000},
			Generation:  GenerationConfig{MaxAttempts: 3},
			Providers: ProvidersConfig{
				EmbeddingProvider:  "stub",
				GenerationProvider: "stub",
			},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("openai provider requires api key", func(t *testing.T) {
		cfg := base()
		cfg.Providers.GenerationProvider = "openai"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		cfg := base()
		cfg.Providers.EmbeddingProvider = "cohere"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive top-k rejected", func(t *testing.T) {
		cfg := base()
		cfg.Retrieval.TopK = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires snapshot path", func(t *testing.T) {
		cfg := base()
		cfg.Environment = "production"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INDEX_SNAPSHOT_PATH")
	})
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", s.Address())
}
