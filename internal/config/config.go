// Package config loads mathsquiz settings from a YAML file, an optional
// .env file and MATHSQUIZ_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fol2/mathsquiz/internal/batchcache"
	"github.com/fol2/mathsquiz/internal/llm"
	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/session"
	"github.com/fol2/mathsquiz/internal/supply"
)

// Config is the complete application configuration.
type Config struct {
	LLM       llm.Config        `yaml:"llm"`
	Game      session.Config    `yaml:"game"`
	Cache     batchcache.Config `yaml:"cache"`
	Generator GeneratorConfig   `yaml:"generator"`
	Log       LogConfig         `yaml:"log"`

	// DBPath is the SQLite database file. Empty means the default location.
	DBPath string `yaml:"db_path"`
}

// GeneratorConfig tunes batch requests to the model.
type GeneratorConfig struct {
	MaxTokens      int           `yaml:"max_tokens"`
	Temperature    float64       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LogConfig controls the application log. The TUI owns the terminal, so
// logs always go to a file.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	gen := problemgen.DefaultConfig()
	return &Config{
		LLM:   llm.DefaultConfig(),
		Game:  session.DefaultConfig(),
		Cache: batchcache.DefaultConfig(),
		Generator: GeneratorConfig{
			MaxTokens:      gen.MaxTokens,
			Temperature:    gen.Temperature,
			RequestTimeout: gen.RequestTimeout,
		},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mathsquiz/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathsquiz", "config.yaml")
}

// DefaultLogPath returns $XDG_STATE_HOME/mathsquiz/mathsquiz.log.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "mathsquiz", "mathsquiz.log")
}

// LoadDotEnv loads variables from the given .env files (default ".env").
// Variables already set in the environment win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.LLM = llm.ApplyEnv(c.LLM)

	// Fall back to the standard provider variables when the selected
	// provider has no key.
	if c.LLM.APIKey() == "" {
		if provider, key, ok := llm.DiscoverKey(); ok {
			c.LLM.Provider = provider
			c.LLM = c.LLM.WithAPIKey(key)
		}
	}

	if p := os.Getenv("MATHSQUIZ_DB"); p != "" {
		c.DBPath = p
	}
	if l := os.Getenv("MATHSQUIZ_LOG_LEVEL"); l != "" {
		c.Log.Level = l
	}
	if f := os.Getenv("MATHSQUIZ_LOG_FILE"); f != "" {
		c.Log.File = f
	}

	c.Game.MaxLevel = problemgen.Level(envIntOr("MATHSQUIZ_MAX_LEVEL", int(c.Game.MaxLevel)))
	c.Game.TotalQuestions = envIntOr("MATHSQUIZ_TOTAL_QUESTIONS", c.Game.TotalQuestions)
	c.Cache.BatchSize = envIntOr("MATHSQUIZ_BATCH_SIZE", c.Cache.BatchSize)
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Cache.BatchSize < 1 {
		return fmt.Errorf("cache: batch size must be positive, got %d", c.Cache.BatchSize)
	}
	if c.Cache.Freshness <= 0 {
		return fmt.Errorf("cache: freshness must be positive, got %s", c.Cache.Freshness)
	}
	if c.Generator.Temperature < 0 || c.Generator.Temperature > 2 {
		return fmt.Errorf("generator: temperature %.2f outside 0..2", c.Generator.Temperature)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", c.Log.Level)
	}
	return nil
}

// Supply returns the supply pipeline settings.
func (c *Config) Supply() supply.Config {
	gen := problemgen.DefaultConfig()
	if c.Generator.MaxTokens > 0 {
		gen.MaxTokens = c.Generator.MaxTokens
	}
	gen.Temperature = c.Generator.Temperature
	if c.Generator.RequestTimeout > 0 {
		gen.RequestTimeout = c.Generator.RequestTimeout
	}
	return supply.Config{Cache: c.Cache, Generator: gen}
}

// Save writes the configuration as YAML, creating the directory. The file
// may hold API keys, so it is written owner-only.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
