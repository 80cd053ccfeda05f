// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration.
type Config struct {
	Environment   string
	Server        ServerConfig
	Index         IndexConfig
	Retrieval     RetrievalConfig
	Prompt        PromptConfig
	Generation    GenerationConfig
	Providers     ProvidersConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// IndexConfig locates the corpus snapshot loaded at startup. SnapshotPath
// points at either a .json snapshot or a .db SQLite snapshot; the extension
// selects the loader.
type IndexConfig struct {
	SnapshotPath string
	Dimension    int
}

// RetrievalConfig holds retrieval defaults applied when a request omits
// options.
type RetrievalConfig struct {
	TopK           int
	MinScore       float64
	EmbedCacheSize int
}

// PromptConfig bounds the assembled context window.
type PromptConfig struct {
	ContextBudgetChars int
}

// GenerationConfig holds generation defaults and the retry envelope.
type GenerationConfig struct {
	Model           string
	MaxOutputTokens int
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	CallTimeout     time.Duration

	// PriceOverrides extends the built-in price table, formatted as
	// "model=inputPerToken:outputPerToken,..." in USD.
	PriceOverrides string
}

// ProvidersConfig selects and configures the embedding and generation
// backends. Provider "stub" runs fully offline (demo mode).
type ProvidersConfig struct {
	EmbeddingProvider  string // "openai" or "stub"
	GenerationProvider string // "openai" or "stub"
	OpenAI             OpenAIConfig
}

// OpenAIConfig holds OpenAI credentials and model selection.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModels     []string
}

// ObservabilityConfig holds logging configuration.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a Config by loading environment variables. A .env file in the
// working directory is honored when present.
func New() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Index: IndexConfig{
			SnapshotPath: getEnv("INDEX_SNAPSHOT_PATH", ""),
			Dimension:    getEnvAsInt("INDEX_DIMENSION", 384),
		},
		Retrieval: RetrievalConfig{
			TopK:           getEnvAsInt("RETRIEVAL_TOP_K", 5),
			MinScore:       getEnvAsFloat("RETRIEVAL_MIN_SCORE", 0.3),
			EmbedCacheSize: getEnvAsInt("RETRIEVAL_EMBED_CACHE_SIZE", 256),
		},
		Prompt: PromptConfig{
			ContextBudgetChars: getEnvAsInt("PROMPT_CONTEXT_BUDGET_CHARS", 4000),
		},
		Generation: GenerationConfig{
			Model:           getEnv("GENERATION_MODEL", "gpt-3.5-turbo"),
			MaxOutputTokens: getEnvAsInt("GENERATION_MAX_OUTPUT_TOKENS", 800),
			MaxAttempts:     getEnvAsInt("GENERATION_MAX_ATTEMPTS", 3),
			BaseDelay:       getEnvAsDuration("GENERATION_RETRY_BASE_DELAY", 500*time.Millisecond),
			MaxDelay:        getEnvAsDuration("GENERATION_RETRY_MAX_DELAY", 8*time.Second),
			CallTimeout:     getEnvAsDuration("GENERATION_CALL_TIMEOUT", 30*time.Second),
			PriceOverrides:  getEnv("GENERATION_PRICE_OVERRIDES", ""),
		},
		Providers: ProvidersConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "stub"),
			GenerationProvider: getEnv("GENERATION_PROVIDER", "stub"),
			OpenAI: OpenAIConfig{
				APIKey:         getEnv("OPENAI_API_KEY", ""),
				BaseURL:        getEnv("OPENAI_BASE_URL", ""),
				EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
				ChatModels:     []string{getEnv("GENERATION_MODEL", "gpt-3.5-turbo")},
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Index.Dimension <= 0 {
		return fmt.Errorf("index dimension must be positive")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top-k must be positive")
	}
	if c.Prompt.ContextBudgetChars <= 0 {
		return fmt.Errorf("prompt context budget must be positive")
	}
	if c.Generation.MaxAttempts <= 0 {
		return fmt.Errorf("generation max attempts must be positive")
	}

	switch c.Providers.EmbeddingProvider {
	case "openai":
		if c.Providers.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when EMBEDDING_PROVIDER=openai")
		}
	case "stub":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Providers.EmbeddingProvider)
	}

	switch c.Providers.GenerationProvider {
	case "openai":
		if c.Providers.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when GENERATION_PROVIDER=openai")
		}
	case "stub":
	default:
		return fmt.Errorf("unknown generation provider %q", c.Providers.GenerationProvider)
	}

	if c.IsProduction() && c.Index.SnapshotPath == "" {
		return fmt.Errorf("INDEX_SNAPSHOT_PATH is required in production")
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Address returns the HTTP server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
