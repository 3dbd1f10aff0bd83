// Package tts synthesizes speech through the ElevenLabs API.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Sentinel errors for synthesis operations.
var (
	// ErrMissingAPIKey indicates a missing ElevenLabs API key.
	ErrMissingAPIKey = errors.New("ElevenLabs API key is required")

	// ErrUnknownVoice indicates a voice name outside the fixed preset
	// registry. This is a configuration error, not a remote failure.
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrEmptyText indicates empty input text.
	ErrEmptyText = errors.New("empty text")
)

// Config holds synthesis settings.
type Config struct {
	// APIKey is the ElevenLabs API key. Required.
	APIKey string

	// Voice is the named voice preset to synthesize with.
	// Default: "Rachel".
	Voice string

	// Model is the ElevenLabs synthesis model.
	// Default: "eleven_multilingual_v2".
	Model string

	// OutputFormat is the ElevenLabs audio output format.
	// Default: "mp3_44100_128".
	OutputFormat string

	// OutputDir is where synthesized audio files are written.
	// Default: os.TempDir()/voiced.
	OutputDir string

	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Voice == "" {
		c.Voice = "Rachel"
	}
	if c.Model == "" {
		c.Model = "eleven_multilingual_v2"
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "mp3_44100_128"
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(os.TempDir(), "voiced")
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
}

// Client synthesizes text to speech with one fixed model and a
// selectable voice preset. No streaming, no chunking of long text, no
// caching of repeated phrases.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *zap.Logger

	mu    sync.RWMutex
	voice string
}

// New creates a synthesis client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if !IsKnownVoice(cfg.Voice) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoice, cfg.Voice)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		config:     cfg,
		logger:     logger,
		voice:      cfg.Voice,
	}, nil
}

// SetVoice selects the voice used by subsequent Speak calls.
func (c *Client) SetVoice(name string) error {
	if !IsKnownVoice(name) {
		return fmt.Errorf("%w: %q", ErrUnknownVoice, name)
	}
	c.mu.Lock()
	c.voice = name
	c.mu.Unlock()
	return nil
}

// Voice returns the currently selected voice name.
func (c *Client) Voice() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.voice
}

// Speak synthesizes text into a fresh MP3 file in the configured output
// directory and returns its path.
func (c *Client) Speak(ctx context.Context, text string) (string, error) {
	name := fmt.Sprintf("reply-%s.mp3", uuid.NewString())
	return c.SpeakTo(ctx, text, filepath.Join(c.config.OutputDir, name))
}

// SpeakTo synthesizes text into outputPath and returns the path.
func (c *Client) SpeakTo(ctx context.Context, text, outputPath string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}

	voice := c.Voice()
	voiceID := voiceIDs[voice]

	audio, err := c.convert(ctx, text, voiceID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("writing audio file: %w", err)
	}

	c.logger.Debug("synthesized speech",
		zap.String("voice", voice),
		zap.Int("text_chars", len(text)),
		zap.String("path", outputPath),
	)
	return outputPath, nil
}

// convertRequest is the text-to-speech request body.
type convertRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// apiError is the error envelope ElevenLabs returns on failure.
type apiError struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// convert issues one synchronous synthesis call and returns the raw
// audio bytes. Remote failures are returned as-is, without retries.
func (c *Client) convert(ctx context.Context, text, voiceID string) ([]byte, error) {
	body, err := json.Marshal(convertRequest{Text: text, ModelID: c.config.Model})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.config.BaseURL, voiceID, c.config.OutputFormat)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ElevenLabs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Detail.Message != "" {
			return nil, fmt.Errorf("ElevenLabs returned %d: %s", resp.StatusCode, apiErr.Detail.Message)
		}
		return nil, fmt.Errorf("ElevenLabs returned %d: %s", resp.StatusCode, string(data))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio response: %w", err)
	}
	return audio, nil
}
