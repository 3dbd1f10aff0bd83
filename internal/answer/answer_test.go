package answer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/voiced/internal/answer"
	"github.com/fyrsmithlabs/voiced/internal/knowledge"
	"github.com/fyrsmithlabs/voiced/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeLLM implements llms.Model, echoing a canned answer and recording
// the prompt it was called with.
type fakeLLM struct {
	response string
	err      error
	prompt   string
	calls    int
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompt += text.Text
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.calls++
	f.prompt += prompt
	return f.response, f.err
}

// memoryStore returns stored documents in insertion order.
type memoryStore struct {
	docs []vectorstore.Document
}

func (m *memoryStore) AddDocuments(_ context.Context, docs []vectorstore.Document) ([]string, error) {
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		m.docs = append(m.docs, doc)
	}
	return ids, nil
}

func (m *memoryStore) Search(_ context.Context, _ string, k int) ([]vectorstore.SearchResult, error) {
	if k > len(m.docs) {
		k = len(m.docs)
	}
	results := make([]vectorstore.SearchResult, k)
	for i := 0; i < k; i++ {
		results[i] = vectorstore.SearchResult{
			ID:       m.docs[i].ID,
			Content:  m.docs[i].Content,
			Metadata: m.docs[i].Metadata,
		}
	}
	return results, nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func newAnswerer(t *testing.T, llm llms.Model, texts ...string) *answer.Answerer {
	t.Helper()

	store, err := knowledge.NewStore(&memoryStore{}, nil)
	require.NoError(t, err)
	if len(texts) > 0 {
		_, err = store.Add(context.Background(), texts, nil)
		require.NoError(t, err)
	}

	a, err := answer.New(llm, store, answer.Config{}, nil)
	require.NoError(t, err)
	return a
}

func TestAnswer_UsesRetrievedContext(t *testing.T) {
	llm := &fakeLLM{response: "The pool closes at 10 PM."}
	poolDoc := "Pool hours are 6:00 AM to 10:00 PM, seven days a week."
	a := newAnswerer(t, llm, poolDoc, "Room service is available 24 hours.")

	result, err := a.Answer(context.Background(), "When does the pool close?")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "10")
	assert.Contains(t, result.Sources, poolDoc)
	assert.Contains(t, llm.prompt, poolDoc)
	assert.Contains(t, llm.prompt, "When does the pool close?")
	assert.Equal(t, 1, llm.calls)
}

func TestAnswer_SourcesAreInsertedTexts(t *testing.T) {
	llm := &fakeLLM{response: "answer"}
	texts := []string{"alpha", "beta", "gamma", "delta"}
	a := newAnswerer(t, llm, texts...)

	result, err := a.Answer(context.Background(), "anything")
	require.NoError(t, err)

	// Top-3 by default, and every source is one of the inserted texts.
	assert.Len(t, result.Sources, 3)
	for _, src := range result.Sources {
		assert.Contains(t, texts, src)
	}
}

func TestAnswer_EmptyStoreSkipsLLM(t *testing.T) {
	llm := &fakeLLM{response: "should not be used"}
	a := newAnswerer(t, llm)

	result, err := a.Answer(context.Background(), "anything at all?")
	require.NoError(t, err)

	assert.Equal(t, answer.NoInformationAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 0, llm.calls)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	a := newAnswerer(t, &fakeLLM{}, "doc")

	_, err := a.Answer(context.Background(), "   ")
	require.ErrorIs(t, err, answer.ErrEmptyQuestion)
}

func TestAnswer_LLMErrorPropagates(t *testing.T) {
	llmErr := errors.New("rate limited")
	a := newAnswerer(t, &fakeLLM{err: llmErr}, "doc")

	_, err := a.Answer(context.Background(), "question?")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "rate limited"))
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := answer.Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, 500, cfg.MaxTokens)
	assert.Equal(t, knowledge.DefaultTopK, cfg.TopK)
	assert.NotEmpty(t, cfg.Model)
}
