package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.LLM.APIKey = "sk-ant-test"
	cfg.TTS.APIKey = "el-test"
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 7860, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, []string{"stderr"}, cfg.Logging.Outputs)
	assert.Equal(t, "base", cfg.Speech.Model)
	assert.Equal(t, "auto", cfg.Speech.Language)
	assert.Equal(t, "fastembed", cfg.Embedding.Provider)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Embedding.Model)
	assert.Equal(t, "voiced_documents", cfg.VectorStore.Collection)
	assert.Equal(t, 384, cfg.VectorStore.VectorSize)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, "Rachel", cfg.TTS.Voice)
	assert.Equal(t, "eleven_multilingual_v2", cfg.TTS.Model)
	assert.Equal(t, "mp3_44100_128", cfg.TTS.OutputFormat)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Speech.Model = "small"
	cfg.ApplyDefaults()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "small", cfg.Speech.Model)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing llm api key", func(t *testing.T) {
		cfg := validConfig()
		cfg.LLM.APIKey = ""
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	})

	t.Run("missing tts api key", func(t *testing.T) {
		cfg := validConfig()
		cfg.TTS.APIKey = ""
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "ELEVENLABS_API_KEY")
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 70000
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("unknown speech model", func(t *testing.T) {
		cfg := validConfig()
		cfg.Speech.Model = "gigantic"
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("unknown logging level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "verbose"
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("openai provider requires base url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Embedding.Provider = "openai"
		cfg.Embedding.BaseURL = ""
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("non-positive vector size", func(t *testing.T) {
		cfg := validConfig()
		cfg.VectorStore.VectorSize = -1
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8181
speech:
  model: small
tts:
  voice: Josh
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "small", cfg.Speech.Model)
	assert.Equal(t, "Josh", cfg.TTS.Voice)
	// Untouched fields fall back to defaults.
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8181\n"), 0600))

	t.Setenv("SERVER_PORT", "9292")
	t.Setenv("SPEECH_MODEL_DIR", "/opt/models")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	t.Setenv("ELEVENLABS_API_KEY", "el-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9292, cfg.Server.Port)
	assert.Equal(t, "/opt/models", cfg.Speech.ModelDir)
	assert.Equal(t, "sk-ant-env", cfg.LLM.APIKey.Value())
	assert.Equal(t, "el-env", cfg.TTS.APIKey.Value())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7860, cfg.Server.Port)
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("super-secret")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "super-secret", s.Value())
	assert.True(t, s.IsSet())

	out, err := json.Marshal(struct {
		Key Secret `json:"key"`
	}{Key: s})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "super-secret")

	var empty Secret
	assert.Equal(t, "", empty.String())
	assert.False(t, empty.IsSet())
}
