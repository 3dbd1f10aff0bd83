package vectorstore_test

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/voiced/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEmbedder returns deterministic normalized vectors so similarity
// search behaves consistently without a real model.
type testEmbedder struct {
	vectorSize int
}

func (e *testEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.makeEmbedding(text)
	}
	return embeddings, nil
}

func (e *testEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.makeEmbedding(text), nil
}

// makeEmbedding creates a normalized embedding from a text hash.
// Identical texts always map to identical vectors.
func (e *testEmbedder) makeEmbedding(text string) []float32 {
	hash := 0
	for _, c := range text {
		hash = (hash*31 + int(c)) % 1000
	}
	embedding := make([]float32, e.vectorSize)
	var sumSq float32
	for i := range embedding {
		embedding[i] = float32((hash+i)%100) / 100.0
		sumSq += embedding[i] * embedding[i]
	}
	// chromem requires normalized vectors.
	if sumSq > 0 {
		norm := 1.0 / sqrt32(sumSq)
		for i := range embedding {
			embedding[i] *= norm
		}
	}
	return embedding
}

func sqrt32(x float32) float32 {
	if x <= 0 {
		return 0
	}
	z := x / 2
	for i := 0; i < 10; i++ {
		z = (z + x/z) / 2
	}
	return z
}

func newTestStore(t *testing.T) *vectorstore.ChromemStore {
	t.Helper()

	config := vectorstore.ChromemConfig{
		Path:       t.TempDir(),
		Collection: "test_collection",
		VectorSize: 384,
	}
	store, err := vectorstore.NewChromemStore(config, &testEmbedder{vectorSize: 384}, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestChromemConfig_ApplyDefaults(t *testing.T) {
	config := vectorstore.ChromemConfig{}
	config.ApplyDefaults()

	assert.Equal(t, "voiced_documents", config.Collection)
	assert.Equal(t, 384, config.VectorSize)
}

func TestNewChromemStore_RequiresEmbedder(t *testing.T) {
	_, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{Path: t.TempDir()}, nil, nil)
	require.ErrorIs(t, err, vectorstore.ErrInvalidConfig)
}

func TestNewChromemStore_RequiresPath(t *testing.T) {
	_, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{}, &testEmbedder{vectorSize: 4}, nil)
	require.ErrorIs(t, err, vectorstore.ErrInvalidConfig)
}

func TestChromemStore_AddAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids, err := store.AddDocuments(ctx, []vectorstore.Document{
		{Content: "check-in is at 3 PM", Metadata: map[string]string{"topic": "check-in"}},
		{Content: "the pool is on the 5th floor"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEmpty(t, ids[1])

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChromemStore_AddEmpty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AddDocuments(context.Background(), nil)
	require.ErrorIs(t, err, vectorstore.ErrEmptyDocuments)
}

func TestChromemStore_Search_SelfMatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	text := "Pool hours are 6:00 AM to 10:00 PM, seven days a week."
	_, err := store.AddDocuments(ctx, []vectorstore.Document{
		{Content: "room service is available around the clock"},
		{Content: text},
		{Content: "the fitness center never closes"},
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, text, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, text, results[0].Content)
}

func TestChromemStore_Search_ClampsK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []vectorstore.Document{
		{Content: "only document"},
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, "anything", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestChromemStore_Search_EmptyCollection(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChromemStore_Search_InvalidArgs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Search(ctx, "query", 0)
	require.Error(t, err)

	_, err = store.Search(ctx, "", 3)
	require.Error(t, err)
}

func TestChromemStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	config := vectorstore.ChromemConfig{Path: dir, Collection: "persist_test"}
	embedder := &testEmbedder{vectorSize: 384}

	store, err := vectorstore.NewChromemStore(config, embedder, nil)
	require.NoError(t, err)
	_, err = store.AddDocuments(ctx, []vectorstore.Document{{Content: "wifi password at the front desk"}})
	require.NoError(t, err)

	reopened, err := vectorstore.NewChromemStore(config, embedder, nil)
	require.NoError(t, err)
	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
