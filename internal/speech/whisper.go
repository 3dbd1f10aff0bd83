//go:build cgo

package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"go.uber.org/zap"
)

// WhisperTranscriber implements Transcriber over a local whisper.cpp
// model. A mutex serializes transcriptions; whisper contexts are not
// safe for concurrent use of one model.
type WhisperTranscriber struct {
	mu       sync.Mutex
	model    whisper.Model
	language string
	logger   *zap.Logger
}

// NewWhisper loads the ggml model selected by cfg and returns a
// transcriber over it.
func NewWhisper(cfg Config, logger *zap.Logger) (*WhisperTranscriber, error) {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	modelPath, err := resolveModelPath(cfg.ModelDir, cfg.Model)
	if err != nil {
		return nil, err
	}

	logger.Info("loading whisper model", zap.String("path", modelPath))
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading whisper model %s: %w", modelPath, err)
	}

	return &WhisperTranscriber{
		model:    model,
		language: cfg.Language,
		logger:   logger,
	}, nil
}

// Transcribe decodes the audio file and runs whisper over it. The whole
// file is processed in one pass; there are no partial results.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	samples, err := decodeWAV(path)
	if err != nil {
		return "", err
	}
	if len(samples) == 0 {
		return "", nil
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("creating whisper context: %w", err)
	}

	// Transcription only, no translation.
	wctx.SetTranslate(false)
	if w.language != "" {
		if err := wctx.SetLanguage(w.language); err != nil {
			return "", fmt.Errorf("setting language %q: %w", w.language, err)
		}
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("processing audio: %w", err)
	}

	var result strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading segment: %w", err)
		}
		result.WriteString(segment.Text)
	}

	text := strings.TrimSpace(result.String())
	w.logger.Debug("transcribed audio",
		zap.String("path", path),
		zap.Int("samples", len(samples)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// Close releases the whisper model.
func (w *WhisperTranscriber) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model != nil {
		err := w.model.Close()
		w.model = nil
		return err
	}
	return nil
}
