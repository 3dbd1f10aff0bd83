package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// sections are the top-level config keys recognized by the env var
// transformer.
var sections = []string{"server", "logging", "speech", "embedding", "vectorstore", "llm", "tts"}

// Load loads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Well-known API key variables (ANTHROPIC_API_KEY, ELEVENLABS_API_KEY,
//     OPENAI_API_KEY)
//  2. Sectioned environment variables (SERVER_PORT, SPEECH_MODEL_DIR, ...)
//  3. YAML config file (~/.config/voiced/config.yaml)
//  4. Hardcoded defaults
//
// If configPath is empty the default path is used; a missing file is not
// an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "voiced", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Sectioned environment variables. The first underscore after a known
	// section prefix becomes the key separator, the rest of the name is
	// the field: SPEECH_MODEL_DIR -> speech.model_dir
	if err := k.Load(env.Provider("", ".", transformEnv), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Provider-conventional API key variables trump everything else.
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.APIKey = Secret(v)
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.TTS.APIKey = Secret(v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = Secret(v)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// readConfigFile opens and reads a config file, enforcing the size limit
// on the already-opened descriptor to avoid a TOCTOU race.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("%w: config file %s exceeds %d bytes", ErrInvalidConfig, path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// transformEnv maps an environment variable name to a koanf key, or ""
// to skip variables outside the recognized sections.
func transformEnv(name string) string {
	lower := strings.ToLower(name)
	for _, section := range sections {
		prefix := section + "_"
		if strings.HasPrefix(lower, prefix) {
			return section + "." + strings.TrimPrefix(lower, prefix)
		}
	}
	return ""
}
