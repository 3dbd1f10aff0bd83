package knowledge_test

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/voiced/internal/knowledge"
	"github.com/fyrsmithlabs/voiced/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory vectorstore.Store that returns documents
// in insertion order, which is enough to exercise the knowledge layer
// without embeddings.
type memoryStore struct {
	docs []vectorstore.Document
}

func (m *memoryStore) AddDocuments(_ context.Context, docs []vectorstore.Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, vectorstore.ErrEmptyDocuments
	}
	ids := make([]string, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = string(rune('a' + len(m.docs)))
		}
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
			Score:    1.0,
			Metadata: m.docs[i].Metadata,
		}
	}
	return results, nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func newTestStore(t *testing.T) (*knowledge.Store, *memoryStore) {
	t.Helper()
	mem := &memoryStore{}
	store, err := knowledge.NewStore(mem, nil)
	require.NoError(t, err)
	return store, mem
}

func TestEnsureSeeded_EmptyStore(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureSeeded(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, knowledge.SeedDocumentCount, count)
}

func TestEnsureSeeded_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureSeeded(ctx))
	require.NoError(t, store.EnsureSeeded(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, knowledge.SeedDocumentCount, count)
}

func TestEnsureSeeded_SkipsNonEmptyStore(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, []string{"existing document"}, nil)
	require.NoError(t, err)

	require.NoError(t, store.EnsureSeeded(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAdd_GeneratesSourceMetadata(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	ids, err := store.Add(ctx, []string{"first", "second"}, nil)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	assert.Equal(t, "doc_0", mem.docs[0].Metadata["source"])
	assert.Equal(t, "doc_1", mem.docs[1].Metadata["source"])
}

func TestAdd_KeepsExplicitMetadata(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, []string{"pool hours"}, []map[string]string{{"topic": "amenities"}})
	require.NoError(t, err)

	assert.Equal(t, "amenities", mem.docs[0].Metadata["topic"])
}

func TestAdd_RejectsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, nil, nil)
	require.ErrorIs(t, err, vectorstore.ErrEmptyDocuments)

	_, err = store.Add(ctx, []string{""}, nil)
	require.ErrorIs(t, err, knowledge.ErrEmptyText)
}

func TestQuery_DefaultsTopK(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.EnsureSeeded(ctx))

	sources, err := store.Query(ctx, "when can I check in?", 0)
	require.NoError(t, err)
	assert.Len(t, sources, knowledge.DefaultTopK)
}

func TestQuery_NeverMoreThanCount(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, []string{"only one"}, nil)
	require.NoError(t, err)

	sources, err := store.Query(ctx, "anything", 10)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestQuery_RejectsEmptyQuestion(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Query(context.Background(), "", 3)
	require.ErrorIs(t, err, knowledge.ErrEmptyText)
}
