// Package orchestrator sequences the voice question-answering pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/voiced/internal/answer"
	"github.com/fyrsmithlabs/voiced/internal/speech"
	"go.uber.org/zap"
)

// ErrNoSpeech indicates the recording contained no recognizable speech.
// The answer and synthesis stages are skipped in that case.
var ErrNoSpeech = errors.New("no speech recognized")

// Answerer generates an answer for a transcribed question.
type Answerer interface {
	Answer(ctx context.Context, question string) (answer.Result, error)
}

// Synthesizer converts answer text to an audio file.
type Synthesizer interface {
	Speak(ctx context.Context, text string) (string, error)
}

// Exchange is the outcome of one voice interaction.
type Exchange struct {
	// Transcript is what the assistant heard.
	Transcript string `json:"transcript"`
	// Answer is the generated answer text.
	Answer string `json:"answer"`
	// Sources are the document texts the answer drew on.
	Sources []string `json:"sources"`
	// AudioPath is the synthesized answer audio file.
	AudioPath string `json:"audio_path"`
}

// Pipeline composes transcription, answering and synthesis into one
// synchronous call chain. A failure in any stage aborts the whole
// action; the raw error surfaces to the caller.
type Pipeline struct {
	transcriber speech.Transcriber
	answerer    Answerer
	synthesizer Synthesizer
	logger      *zap.Logger
}

// New creates a pipeline over the three stages.
func New(transcriber speech.Transcriber, answerer Answerer, synthesizer Synthesizer, logger *zap.Logger) (*Pipeline, error) {
	if transcriber == nil {
		return nil, errors.New("transcriber is required")
	}
	if answerer == nil {
		return nil, errors.New("answerer is required")
	}
	if synthesizer == nil {
		return nil, errors.New("synthesizer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		transcriber: transcriber,
		answerer:    answerer,
		synthesizer: synthesizer,
		logger:      logger,
	}, nil
}

// ProcessVoice runs one voice interaction: transcribe the recording,
// answer the transcribed question, speak the answer. An empty
// transcription returns ErrNoSpeech without touching the LLM or TTS.
func (p *Pipeline) ProcessVoice(ctx context.Context, audioPath string) (Exchange, error) {
	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return Exchange{}, fmt.Errorf("transcribing audio: %w", err)
	}
	if transcript == "" {
		return Exchange{}, ErrNoSpeech
	}
	p.logger.Info("transcribed question", zap.String("transcript", transcript))

	result, err := p.answerer.Answer(ctx, transcript)
	if err != nil {
		return Exchange{Transcript: transcript}, fmt.Errorf("answering question: %w", err)
	}

	audioOut, err := p.synthesizer.Speak(ctx, result.Answer)
	if err != nil {
		return Exchange{Transcript: transcript, Answer: result.Answer, Sources: result.Sources},
			fmt.Errorf("synthesizing answer: %w", err)
	}

	p.logger.Info("voice exchange complete",
		zap.String("transcript", transcript),
		zap.Int("sources", len(result.Sources)),
		zap.String("audio", audioOut),
	)

	return Exchange{
		Transcript: transcript,
		Answer:     result.Answer,
		Sources:    result.Sources,
		AudioPath:  audioOut,
	}, nil
}
