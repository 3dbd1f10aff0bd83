// Package http provides the HTTP API and web UI for voiced.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/voiced/internal/answer"
	"github.com/fyrsmithlabs/voiced/internal/orchestrator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// VoicePipeline runs one full voice interaction.
type VoicePipeline interface {
	ProcessVoice(ctx context.Context, audioPath string) (orchestrator.Exchange, error)
}

// Answerer answers a text question against the knowledge base.
type Answerer interface {
	Answer(ctx context.Context, question string) (answer.Result, error)
}

// DocumentStore exposes the knowledge base to the ingestion panel.
type DocumentStore interface {
	Add(ctx context.Context, texts []string, metadatas []map[string]string) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// VoiceSelector exposes voice selection to the settings panel.
type VoiceSelector interface {
	SetVoice(name string) error
	Voice() string
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// AudioDir is the directory synthesized replies are served from.
	AudioDir string
	// UploadDir is where recorded questions are spooled before
	// transcription. Default: os.TempDir().
	UploadDir string
}

// Server provides the JSON API and the three-panel web UI.
type Server struct {
	echo     *echo.Echo
	pipeline VoicePipeline
	answerer Answerer
	store    DocumentStore
	voices   VoiceSelector
	logger   *zap.Logger
	config   *Config
}

// NewServer creates the HTTP server over the assembled services.
func NewServer(pipeline VoicePipeline, answerer Answerer, store DocumentStore, voices VoiceSelector, logger *zap.Logger, cfg *Config) (*Server, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if answerer == nil {
		return nil, fmt.Errorf("answerer cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if voices == nil {
		return nil, fmt.Errorf("voice selector cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 7860
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		pipeline: pipeline,
		answerer: answerer,
		store:    store,
		voices:   voices,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/", s.handleIndex)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/ask", s.handleAsk)
	v1.POST("/ask/text", s.handleAskText)
	v1.POST("/documents", s.handleAddDocument)
	v1.GET("/documents/count", s.handleCount)
	v1.GET("/voices", s.handleVoices)
	v1.PUT("/voice", s.handleSetVoice)
	v1.GET("/audio/:name", s.handleAudio)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Handler returns the underlying http.Handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
