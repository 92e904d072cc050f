package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects a backend and holds the settings of each.
type Config struct {
	// Provider is "gemini", "openai", "anthropic", "openrouter" or "mock".
	Provider string `yaml:"provider"`

	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`

	Retry RetryConfig `yaml:"retry"`

	// Timeout bounds one request including its retries. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// RetryConfig shapes RetryProvider's backoff.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// backend describes where one provider's key and model live. The order of
// backends is the discovery order of DiscoverKey.
type backend struct {
	name string

	// stdEnv is the vendor's own key variable, e.g. GEMINI_API_KEY.
	stdEnv string

	key   func(*Config) *string
	model func(*Config) *string
	url   func(*Config) *string
}

var backends = []backend{
	{
		name: "gemini", stdEnv: "GEMINI_API_KEY",
		key:   func(c *Config) *string { return &c.Gemini.APIKey },
		model: func(c *Config) *string { return &c.Gemini.Model },
		url:   func(c *Config) *string { return &c.Gemini.BaseURL },
	},
	{
		name: "openai", stdEnv: "OPENAI_API_KEY",
		key:   func(c *Config) *string { return &c.OpenAI.APIKey },
		model: func(c *Config) *string { return &c.OpenAI.Model },
		url:   func(c *Config) *string { return &c.OpenAI.BaseURL },
	},
	{
		name: "anthropic", stdEnv: "ANTHROPIC_API_KEY",
		key:   func(c *Config) *string { return &c.Anthropic.APIKey },
		model: func(c *Config) *string { return &c.Anthropic.Model },
		url:   func(c *Config) *string { return &c.Anthropic.BaseURL },
	},
	{
		name: "openrouter", stdEnv: "OPENROUTER_API_KEY",
		key:   func(c *Config) *string { return &c.OpenRouter.APIKey },
		model: func(c *Config) *string { return &c.OpenRouter.Model },
		url:   func(c *Config) *string { return &c.OpenRouter.BaseURL },
	},
}

func lookupBackend(name string) (backend, bool) {
	for _, b := range backends {
		if b.name == name {
			return b, true
		}
	}
	return backend{}, false
}

// envName is the MATHSQUIZ_* variable for one backend setting, e.g.
// MATHSQUIZ_GEMINI_API_KEY.
func envName(backend, setting string) string {
	return "MATHSQUIZ_" + strings.ToUpper(backend) + "_" + setting
}

// ApplyEnv overlays MATHSQUIZ_LLM_PROVIDER and the per-backend
// MATHSQUIZ_<BACKEND>_{API_KEY,MODEL,BASE_URL} variables onto cfg.
func ApplyEnv(cfg Config) Config {
	if p := os.Getenv("MATHSQUIZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	for _, b := range backends {
		for setting, field := range map[string]func(*Config) *string{
			"API_KEY": b.key, "MODEL": b.model, "BASE_URL": b.url,
		} {
			if v := os.Getenv(envName(b.name, setting)); v != "" {
				*field(&cfg) = v
			}
		}
	}
	return cfg
}

// DiscoverKey returns the first vendor key variable that is set, checking
// Gemini, OpenAI, Anthropic, then OpenRouter.
func DiscoverKey() (provider, key string, ok bool) {
	for _, b := range backends {
		if k := os.Getenv(b.stdEnv); k != "" {
			return b.name, k, true
		}
	}
	return "", "", false
}

// APIKey is the key of the selected backend, or "".
func (c Config) APIKey() string {
	if b, ok := lookupBackend(c.Provider); ok {
		return *b.key(&c)
	}
	return ""
}

// WithAPIKey returns a copy of c with the selected backend's key replaced.
func (c Config) WithAPIKey(key string) Config {
	if b, ok := lookupBackend(c.Provider); ok {
		*b.key(&c) = key
	}
	return c
}

// Validate checks that the selected backend exists and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	b, ok := lookupBackend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if *b.key(&c) == "" {
		return fmt.Errorf("%s or %s is required for the %s provider", envName(b.name, "API_KEY"), b.stdEnv, b.name)
	}
	return nil
}
