//go:build !cgo

package speech

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrWhisperNotAvailable is returned when whisper.cpp is not available
// (requires CGO and a whisper.cpp checkout, see README).
var ErrWhisperNotAvailable = errors.New("whisper: not available (binary built without CGO support)")

// WhisperTranscriber is a stub for non-CGO builds.
type WhisperTranscriber struct{}

// NewWhisper returns an error when CGO is not available.
func NewWhisper(_ Config, _ *zap.Logger) (*WhisperTranscriber, error) {
	return nil, ErrWhisperNotAvailable
}

// Transcribe returns an error when CGO is not available.
func (w *WhisperTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return "", ErrWhisperNotAvailable
}

// Close is a no-op when CGO is not available.
func (w *WhisperTranscriber) Close() error {
	return nil
}
