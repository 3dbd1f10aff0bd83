// Package config provides configuration loading for voiced.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidConfig indicates invalid configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// SpeechModelSizes is the set of whisper model sizes voiced knows how to
// resolve to a ggml model file.
var SpeechModelSizes = []string{"tiny", "base", "small", "medium", "large"}

// Config is the root configuration for the voiced daemon.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Speech      SpeechConfig      `koanf:"speech"`
	Embedding   EmbeddingConfig   `koanf:"embedding"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	LLM         LLMConfig         `koanf:"llm"`
	TTS         TTSConfig         `koanf:"tts"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig holds zap logger settings.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "json" or "console".
	Format string `koanf:"format"`
	// Outputs are zap sink paths (stdout, stderr, or file paths).
	Outputs []string `koanf:"outputs"`
}

// SpeechConfig holds whisper transcription settings.
type SpeechConfig struct {
	// Model is the whisper model size: tiny, base, small, medium, large.
	Model string `koanf:"model"`
	// ModelDir is the directory holding ggml model files
	// (ggml-<size>.bin). Default: ~/.cache/voiced/models
	ModelDir string `koanf:"model_dir"`
	// Language is the transcription language ("auto" for detection).
	Language string `koanf:"language"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider selects the embedding backend: "fastembed" (local ONNX)
	// or "openai" (any OpenAI-compatible endpoint).
	Provider string `koanf:"provider"`
	// Model is the embedding model name.
	// Default: sentence-transformers/all-MiniLM-L6-v2 (384 dims).
	Model string `koanf:"model"`
	// CacheDir caches downloaded model files for the local provider.
	CacheDir string `koanf:"cache_dir"`
	// BaseURL is the API base URL for the remote provider.
	BaseURL string `koanf:"base_url"`
	// APIKey is the API key for the remote provider.
	APIKey Secret `koanf:"api_key"`
}

// VectorStoreConfig holds chromem-go settings.
type VectorStoreConfig struct {
	// Path is the directory for persistent storage.
	// Default: ~/.local/share/voiced/vectorstore
	Path string `koanf:"path"`
	// Collection is the document collection name.
	Collection string `koanf:"collection"`
	// Compress enables gzip compression for stored data.
	Compress bool `koanf:"compress"`
	// VectorSize is the expected embedding dimension. Must match the
	// embedder's output dimension. Default: 384 (all-MiniLM-L6-v2).
	VectorSize int `koanf:"vector_size"`
}

// LLMConfig holds answer generation settings.
type LLMConfig struct {
	// APIKey is the Anthropic API key. Required.
	APIKey Secret `koanf:"api_key"`
	// Model is the Anthropic model name.
	Model string `koanf:"model"`
	// MaxTokens bounds the generated answer length.
	MaxTokens int `koanf:"max_tokens"`
}

// TTSConfig holds ElevenLabs speech synthesis settings.
type TTSConfig struct {
	// APIKey is the ElevenLabs API key. Required.
	APIKey Secret `koanf:"api_key"`
	// Voice is the named voice preset to synthesize with.
	Voice string `koanf:"voice"`
	// Model is the ElevenLabs synthesis model.
	Model string `koanf:"model"`
	// OutputFormat is the ElevenLabs audio output format.
	OutputFormat string `koanf:"output_format"`
	// OutputDir is where synthesized replies are written.
	// Default: os.TempDir()/voiced
	OutputDir string `koanf:"output_dir"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 7860
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if len(c.Logging.Outputs) == 0 {
		c.Logging.Outputs = []string{"stderr"}
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "base"
	}
	if c.Speech.ModelDir == "" {
		c.Speech.ModelDir = defaultUserPath(".cache", "voiced", "models")
	}
	if c.Speech.Language == "" {
		c.Speech.Language = "auto"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "fastembed"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if c.Embedding.CacheDir == "" {
		c.Embedding.CacheDir = defaultUserPath(".cache", "voiced", "embeddings")
	}
	if c.VectorStore.Path == "" {
		c.VectorStore.Path = defaultUserPath(".local", "share", "voiced", "vectorstore")
	}
	if c.VectorStore.Collection == "" {
		c.VectorStore.Collection = "voiced_documents"
	}
	if c.VectorStore.VectorSize == 0 {
		c.VectorStore.VectorSize = 384
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "claude-sonnet-4-20250514"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.TTS.Voice == "" {
		c.TTS.Voice = "Rachel"
	}
	if c.TTS.Model == "" {
		c.TTS.Model = "eleven_multilingual_v2"
	}
	if c.TTS.OutputFormat == "" {
		c.TTS.OutputFormat = "mp3_44100_128"
	}
	if c.TTS.OutputDir == "" {
		c.TTS.OutputDir = filepath.Join(os.TempDir(), "voiced")
	}
}

// Validate validates the configuration. It assumes defaults have been
// applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown logging level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown logging format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if !validSpeechModel(c.Speech.Model) {
		return fmt.Errorf("%w: unknown speech model size %q (supported: tiny, base, small, medium, large)",
			ErrInvalidConfig, c.Speech.Model)
	}
	switch c.Embedding.Provider {
	case "fastembed":
	case "openai":
		if c.Embedding.BaseURL == "" {
			return fmt.Errorf("%w: embedding base URL required for openai provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidConfig, c.Embedding.Provider)
	}
	if c.VectorStore.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	if !c.LLM.APIKey.IsSet() {
		return fmt.Errorf("%w: Anthropic API key required (set ANTHROPIC_API_KEY)", ErrInvalidConfig)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("%w: llm max tokens must be positive", ErrInvalidConfig)
	}
	if !c.TTS.APIKey.IsSet() {
		return fmt.Errorf("%w: ElevenLabs API key required (set ELEVENLABS_API_KEY)", ErrInvalidConfig)
	}
	return nil
}

func validSpeechModel(size string) bool {
	for _, s := range SpeechModelSizes {
		if s == size {
			return true
		}
	}
	return false
}

// defaultUserPath builds a path under the user's home directory, falling
// back to the current directory when the home directory is unknown.
func defaultUserPath(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append([]string{home}, parts...)...)
}
