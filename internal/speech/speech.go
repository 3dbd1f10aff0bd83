// Package speech provides audio transcription for the voice pipeline.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// whisper consumes 16 kHz mono float32 samples.
const sampleRate = 16000

// Sentinel errors for transcription operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrModelNotFound indicates a missing ggml model file.
	ErrModelNotFound = errors.New("speech model file not found")

	// ErrInvalidAudio indicates an unreadable or unsupported audio file.
	ErrInvalidAudio = errors.New("invalid audio file")
)

// Transcriber converts an audio file to text. Silence or noise yields
// empty text, not an error.
type Transcriber interface {
	// Transcribe transcribes the audio file at path.
	Transcribe(ctx context.Context, path string) (string, error)

	// Close releases resources held by the underlying model.
	Close() error
}

// Config holds transcriber settings.
type Config struct {
	// Model is the whisper model size: tiny, base, small, medium, large.
	Model string

	// ModelDir is the directory holding ggml model files
	// (ggml-<size>.bin).
	ModelDir string

	// Language is the transcription language ("auto" for detection).
	Language string
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "base"
	}
	if c.Language == "" {
		c.Language = "auto"
	}
}

// resolveModelPath maps a model size to its ggml file and verifies the
// file exists.
func resolveModelPath(dir, size string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: model directory is required", ErrInvalidConfig)
	}
	path := filepath.Join(dir, fmt.Sprintf("ggml-%s.bin", size))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s (download it with whisper.cpp's models/download-ggml-model.sh)",
			ErrModelNotFound, path)
	}
	return path, nil
}
