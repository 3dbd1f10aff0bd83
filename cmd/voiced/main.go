// Voiced is a voice question-answering daemon.
//
// It transcribes spoken questions with a local whisper model, retrieves
// relevant documents from an embedded vector store, generates an answer
// with Anthropic Claude, and speaks it back through ElevenLabs. A web UI
// and JSON API are served over HTTP.
//
// Usage:
//
//	# Start with defaults (config at ~/.config/voiced/config.yaml)
//	ANTHROPIC_API_KEY=... ELEVENLABS_API_KEY=... voiced
//
//	# Configure via environment
//	SERVER_PORT=9090 SPEECH_MODEL=small voiced
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/voiced/internal/answer"
	"github.com/fyrsmithlabs/voiced/internal/config"
	"github.com/fyrsmithlabs/voiced/internal/embeddings"
	voicehttp "github.com/fyrsmithlabs/voiced/internal/http"
	"github.com/fyrsmithlabs/voiced/internal/knowledge"
	"github.com/fyrsmithlabs/voiced/internal/logging"
	"github.com/fyrsmithlabs/voiced/internal/orchestrator"
	"github.com/fyrsmithlabs/voiced/internal/speech"
	"github.com/fyrsmithlabs/voiced/internal/tts"
	"github.com/fyrsmithlabs/voiced/internal/vectorstore"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/voiced/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  voiced           Start the voiced daemon\n")
			fmt.Fprintf(os.Stderr, "  voiced version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("voiced by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the voiced daemon and blocks until the context is
// cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize logger
//  3. Create embedding provider and vector store
//  4. Seed the knowledge base (idempotent)
//  5. Create answer, speech, and synthesis services
//  6. Wire the voice pipeline and start the HTTP server
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Outputs: cfg.Logging.Outputs,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Sync(logger)

	logger.Info("Starting voiced",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("speech_model", cfg.Speech.Model),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("voice", cfg.TTS.Voice))

	deps, err := initDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	logger.Info("Dependencies initialized",
		zap.Int("documents", deps.documentCount),
		zap.String("collection", cfg.VectorStore.Collection))

	pipeline, err := orchestrator.New(deps.transcriber, deps.answerer, deps.synthesizer, logger)
	if err != nil {
		return fmt.Errorf("failed to create voice pipeline: %w", err)
	}

	srv, err := voicehttp.NewServer(pipeline, deps.answerer, deps.knowledge, deps.synthesizer, logger, &voicehttp.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		AudioDir: cfg.TTS.OutputDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	logger.Info("Server configured",
		zap.String("ui", fmt.Sprintf("http://%s:%d/", cfg.Server.Host, cfg.Server.Port)),
		zap.String("health_endpoint", "/health"),
		zap.String("api_prefix", "/api/v1"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// dependencies holds the assembled services behind the HTTP layer.
type dependencies struct {
	embedder      embeddings.Provider
	transcriber   speech.Transcriber
	knowledge     *knowledge.Store
	answerer      *answer.Answerer
	synthesizer   *tts.Client
	documentCount int
}

// Close releases service resources.
func (d *dependencies) Close() {
	if d.transcriber != nil {
		_ = d.transcriber.Close()
	}
	if d.embedder != nil {
		_ = d.embedder.Close()
	}
}

// initDependencies builds the full service graph from configuration.
func initDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*dependencies, error) {
	embedder, err := embeddings.New(embeddings.Config{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		CacheDir: cfg.Embedding.CacheDir,
		BaseURL:  cfg.Embedding.BaseURL,
		APIKey:   cfg.Embedding.APIKey.Value(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	logger.Info("Embedding provider initialized",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimension", embedder.Dimension()))

	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path:       cfg.VectorStore.Path,
		Collection: cfg.VectorStore.Collection,
		Compress:   cfg.VectorStore.Compress,
		VectorSize: cfg.VectorStore.VectorSize,
	}, embedder, logger)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	kb, err := knowledge.NewStore(store, logger)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("failed to create knowledge base: %w", err)
	}
	if err := kb.EnsureSeeded(ctx); err != nil {
		embedder.Close()
		return nil, fmt.Errorf("failed to seed knowledge base: %w", err)
	}

	count, err := kb.Count(ctx)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	answerer, err := answer.NewAnthropic(cfg.LLM.APIKey.Value(), kb, answer.Config{
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	}, logger)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("failed to create answerer: %w", err)
	}

	transcriber, err := speech.NewWhisper(speech.Config{
		Model:    cfg.Speech.Model,
		ModelDir: cfg.Speech.ModelDir,
		Language: cfg.Speech.Language,
	}, logger)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("failed to load whisper model: %w", err)
	}

	logger.Info("Whisper model loaded",
		zap.String("model", cfg.Speech.Model),
		zap.String("model_dir", cfg.Speech.ModelDir))

	synthesizer, err := tts.New(tts.Config{
		APIKey:       cfg.TTS.APIKey.Value(),
		Voice:        cfg.TTS.Voice,
		Model:        cfg.TTS.Model,
		OutputFormat: cfg.TTS.OutputFormat,
		OutputDir:    cfg.TTS.OutputDir,
	}, logger)
	if err != nil {
		transcriber.Close()
		embedder.Close()
		return nil, fmt.Errorf("failed to create speech synthesizer: %w", err)
	}

	return &dependencies{
		embedder:      embedder,
		transcriber:   transcriber,
		knowledge:     kb,
		answerer:      answerer,
		synthesizer:   synthesizer,
		documentCount: count,
	}, nil
}
