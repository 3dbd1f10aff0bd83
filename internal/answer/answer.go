// Package answer generates spoken-style answers from retrieved
// documents.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/voiced/internal/knowledge"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"go.uber.org/zap"
)

// ErrEmptyQuestion indicates an empty question.
var ErrEmptyQuestion = errors.New("empty question")

// NoInformationAnswer is returned when retrieval finds nothing; the LLM
// is not called in that case.
const NoInformationAnswer = "I don't have any information about that in my knowledge base."

// promptTemplate instructs the model to answer conversationally: the
// output is spoken aloud, so no markdown, no lists, no source citations.
const promptTemplate = `You are a helpful voice assistant. Answer questions based on the provided context.

Rules:
- Be conversational and natural - your response will be spoken aloud
- Keep answers concise (2-4 sentences ideal for voice)
- If the context doesn't contain the answer, say so briefly
- Don't use markdown formatting, bullet points, or numbered lists
- Don't say "according to the source" - just answer naturally

Context:
%s

Question: %s

Provide a brief, conversational answer suitable for voice output.`

// Config holds answer generation settings.
type Config struct {
	// Model is the Anthropic model name.
	Model string
	// MaxTokens bounds the generated answer length. Default: 500.
	MaxTokens int
	// TopK is the number of documents retrieved per question.
	// Default: knowledge.DefaultTopK.
	TopK int
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "claude-sonnet-4-20250514"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 500
	}
	if c.TopK == 0 {
		c.TopK = knowledge.DefaultTopK
	}
}

// Result is a generated answer with the documents it drew on.
type Result struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`
	// Sources are the retrieved document texts, most similar first.
	Sources []string `json:"sources"`
}

// Answerer retrieves documents for a question and generates an answer
// with a single LLM call. No caching, no dedup of overlapping sources.
type Answerer struct {
	llm    llms.Model
	store  *knowledge.Store
	config Config
	logger *zap.Logger
}

// New creates an Answerer over the given model and document store.
func New(llm llms.Model, store *knowledge.Store, cfg Config, logger *zap.Logger) (*Answerer, error) {
	if llm == nil {
		return nil, errors.New("llm is required")
	}
	if store == nil {
		return nil, errors.New("knowledge store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()

	return &Answerer{
		llm:    llm,
		store:  store,
		config: cfg,
		logger: logger,
	}, nil
}

// NewAnthropic creates an Answerer backed by the Anthropic API.
func NewAnthropic(apiKey string, store *knowledge.Store, cfg Config, logger *zap.Logger) (*Answerer, error) {
	cfg.ApplyDefaults()

	llm, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Anthropic client: %w", err)
	}
	return New(llm, store, cfg, logger)
}

// Answer retrieves the top-k documents for the question and asks the
// model for a conversational answer. LLM failures propagate unwrapped
// beyond the added context; there is no retry.
func (a *Answerer) Answer(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, ErrEmptyQuestion
	}

	sources, err := a.store.Query(ctx, question, a.config.TopK)
	if err != nil {
		return Result{}, fmt.Errorf("retrieving documents: %w", err)
	}

	if len(sources) == 0 {
		return Result{Answer: NoInformationAnswer, Sources: []string{}}, nil
	}

	var contextParts []string
	texts := make([]string, len(sources))
	for i, src := range sources {
		contextParts = append(contextParts, fmt.Sprintf("[Source %d]: %s", i+1, src.Text))
		texts[i] = src.Text
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(contextParts, "\n\n"), question)

	answerText, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt,
		llms.WithMaxTokens(a.config.MaxTokens),
	)
	if err != nil {
		return Result{}, fmt.Errorf("generating answer: %w", err)
	}

	a.logger.Debug("generated answer",
		zap.String("question", question),
		zap.Int("sources", len(texts)),
	)

	return Result{
		Answer:  strings.TrimSpace(answerText),
		Sources: texts,
	}, nil
}
