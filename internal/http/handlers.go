package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/voiced/internal/knowledge"
	"github.com/fyrsmithlabs/voiced/internal/orchestrator"
	"github.com/fyrsmithlabs/voiced/internal/speech"
	"github.com/fyrsmithlabs/voiced/internal/tts"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// noSpeechMessage is shown when the recording contained no speech.
const noSpeechMessage = "I couldn't hear anything. Please try again."

// handleAsk accepts a recorded question as a multipart "audio" file and
// runs the full voice pipeline over it.
func (s *Server) handleAsk(c echo.Context) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is required")
	}

	audioPath, err := s.spoolUpload(file)
	if err != nil {
		s.logger.Error("failed to spool uploaded audio", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store uploaded audio")
	}
	defer os.Remove(audioPath)

	exchange, err := s.pipeline.ProcessVoice(c.Request().Context(), audioPath)
	if err != nil {
		if errors.Is(err, orchestrator.ErrNoSpeech) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, noSpeechMessage)
		}
		if errors.Is(err, speech.ErrInvalidAudio) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("voice pipeline failed", zap.Error(err))
		// Wrapped service errors pass through untranslated.
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, AskResponse{
		Transcript: exchange.Transcript,
		Answer:     exchange.Answer,
		Sources:    exchange.Sources,
		AudioURL:   "/api/v1/audio/" + filepath.Base(exchange.AudioPath),
	})
}

// handleAskText answers a typed question without the speech stages.
func (s *Server) handleAskText(c echo.Context) error {
	var req AskTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question field is required")
	}

	result, err := s.answerer.Answer(c.Request().Context(), req.Question)
	if err != nil {
		s.logger.Error("answer generation failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, AskTextResponse{
		Answer:  result.Answer,
		Sources: result.Sources,
	})
}

// handleAddDocument inserts one document into the knowledge base.
func (s *Server) handleAddDocument(c echo.Context) error {
	var req AddDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	var metadatas []map[string]string
	if req.Metadata != nil {
		metadatas = []map[string]string{req.Metadata}
	}

	ids, err := s.store.Add(c.Request().Context(), []string{text}, metadatas)
	if err != nil {
		if errors.Is(err, knowledge.ErrEmptyText) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("failed to add document", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	count, err := s.store.Count(c.Request().Context())
	if err != nil {
		s.logger.Error("failed to count documents", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, AddDocumentResponse{ID: ids[0], Count: count})
}

// handleCount returns the knowledge base size.
func (s *Server) handleCount(c echo.Context) error {
	count, err := s.store.Count(c.Request().Context())
	if err != nil {
		s.logger.Error("failed to count documents", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, CountResponse{Count: count})
}

// handleVoices lists the voice presets and the current selection.
func (s *Server) handleVoices(c echo.Context) error {
	return c.JSON(http.StatusOK, VoicesResponse{
		Voices:   tts.Voices(),
		Selected: s.voices.Voice(),
	})
}

// handleSetVoice changes the synthesis voice.
func (s *Server) handleSetVoice(c echo.Context) error {
	var req SetVoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Voice == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "voice field is required")
	}

	if err := s.voices.SetVoice(req.Voice); err != nil {
		if errors.Is(err, tts.ErrUnknownVoice) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, SetVoiceResponse{Voice: s.voices.Voice()})
}

// handleAudio serves a synthesized reply from the audio directory. Only
// the base name is honored, so requests cannot escape the directory.
func (s *Server) handleAudio(c echo.Context) error {
	name := filepath.Base(c.Param("name"))
	if name == "." || name == string(filepath.Separator) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid audio name")
	}

	path := filepath.Join(s.config.AudioDir, name)
	if _, err := os.Stat(path); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "audio not found")
	}
	return c.File(path)
}

// spoolUpload writes an uploaded multipart file to the upload directory
// and returns its path.
func (s *Server) spoolUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	dir := s.config.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("question-%s.wav", uuid.NewString()))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating spool file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing spool file: %w", err)
	}
	return path, nil
}
