package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MATHSQUIZ_LLM_PROVIDER", "MATHSQUIZ_GEMINI_API_KEY", "MATHSQUIZ_OPENAI_API_KEY",
		"MATHSQUIZ_ANTHROPIC_API_KEY", "MATHSQUIZ_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"MATHSQUIZ_DB", "MATHSQUIZ_LOG_LEVEL", "MATHSQUIZ_LOG_FILE",
		"MATHSQUIZ_MAX_LEVEL", "MATHSQUIZ_TOTAL_QUESTIONS", "MATHSQUIZ_BATCH_SIZE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 10, cfg.Game.TotalQuestions)
	assert.Equal(t, 5, cfg.Cache.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.Freshness)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  openai:
    api_key: sk-file
    model: gpt-4o
game:
  max_level: 8
  base_time: 45s
cache:
  freshness: 2m
log:
  level: debug
db_path: /tmp/quiz.db
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey())
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.EqualValues(t, 8, cfg.Game.MaxLevel)
	assert.Equal(t, 45*time.Second, cfg.Game.BaseTime)
	assert.Equal(t, 10, cfg.Game.TotalQuestions, "unset fields keep defaults")
	assert.Equal(t, 2*time.Minute, cfg.Cache.Freshness)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/quiz.db", cfg.DBPath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATHSQUIZ_DB", "/env/quiz.db")
	t.Setenv("MATHSQUIZ_TOTAL_QUESTIONS", "15")
	t.Setenv("MATHSQUIZ_BATCH_SIZE", "not-a-number")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /file/quiz.db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/quiz.db", cfg.DBPath)
	assert.Equal(t, 15, cfg.Game.TotalQuestions)
	assert.Equal(t, 5, cfg.Cache.BatchSize, "invalid numbers fall back")
}

func TestLoad_DiscoversStandardKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.APIKey())
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "MATHSQUIZ_DOTENV_TEST_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "chatty"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Cache.BatchSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Game.StartLevel = 9
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.LLM = cfg.LLM.WithAPIKey("sk-saved")
	cfg.Game.TotalQuestions = 12
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-saved", loaded.LLM.APIKey())
	assert.Equal(t, 12, loaded.Game.TotalQuestions)
	assert.Equal(t, cfg.Game.BaseTime, loaded.Game.BaseTime)
}

func TestSupply(t *testing.T) {
	cfg := Default()
	cfg.Generator.Temperature = 0.4
	cfg.Cache.BatchSize = 7

	s := cfg.Supply()
	assert.Equal(t, 7, s.Cache.BatchSize)
	assert.Equal(t, 0.4, s.Generator.Temperature)
	assert.NotEmpty(t, s.Generator.Validators)
}
