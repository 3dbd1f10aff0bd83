// Package knowledge provides the document collection behind the voice
// assistant.
package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/voiced/internal/vectorstore"
	"go.uber.org/zap"
)

// DefaultTopK is the number of documents retrieved per query when the
// caller does not specify one.
const DefaultTopK = 3

// ErrEmptyText indicates an empty document or question.
var ErrEmptyText = errors.New("empty text")

// seedDocuments is the fixed sample set inserted into an empty
// collection so the demo always has something to answer from.
var seedDocuments = []vectorstore.Document{
	{
		Content:  "Our hotel check-in time is 3 PM and check-out time is 11 AM. Early check-in may be available upon request.",
		Metadata: map[string]string{"source": "check-in policy"},
	},
	{
		Content:  "The swimming pool is located on the 5th floor and is open from 6 AM to 10 PM daily.",
		Metadata: map[string]string{"source": "pool info"},
	},
	{
		Content:  "Room service is available 24 hours. You can order by pressing 0 on your room phone.",
		Metadata: map[string]string{"source": "room service"},
	},
	{
		Content:  "Free WiFi is available throughout the hotel. The password is provided at check-in.",
		Metadata: map[string]string{"source": "wifi info"},
	},
	{
		Content:  "The fitness center is on the 3rd floor, open 24 hours for hotel guests.",
		Metadata: map[string]string{"source": "fitness center"},
	},
}

// SeedDocumentCount is the number of sample documents EnsureSeeded
// inserts into an empty collection.
const SeedDocumentCount = 5

// Source is a retrieved document.
type Source struct {
	// ID is the stored document identifier.
	ID string
	// Text is the document content.
	Text string
	// Score is the cosine similarity to the query (higher = closer).
	Score float32
	// Metadata is the document metadata.
	Metadata map[string]string
}

// Store is the assistant's document collection.
type Store struct {
	store  vectorstore.Store
	logger *zap.Logger
}

// NewStore creates a document store over the given vector store.
func NewStore(store vectorstore.Store, logger *zap.Logger) (*Store, error) {
	if store == nil {
		return nil, errors.New("vector store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{store: store, logger: logger}, nil
}

// EnsureSeeded inserts the sample documents when the collection is
// empty. It is idempotent and meant to be called once at startup, not
// from the query path, so two racing first queries cannot double-seed.
func (s *Store) EnsureSeeded(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.store.AddDocuments(ctx, seedDocuments); err != nil {
		return fmt.Errorf("seeding documents: %w", err)
	}
	s.logger.Info("seeded empty knowledge base", zap.Int("documents", len(seedDocuments)))
	return nil
}

// Add inserts documents. metadatas may be nil or shorter than texts;
// missing entries get an auto-numbered source label, matching the
// collection's seed convention.
func (s *Store) Add(ctx context.Context, texts []string, metadatas []map[string]string) ([]string, error) {
	if len(texts) == 0 {
		return nil, vectorstore.ErrEmptyDocuments
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	docs := make([]vectorstore.Document, len(texts))
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("%w: document %d", ErrEmptyText, i)
		}
		var meta map[string]string
		if i < len(metadatas) && metadatas[i] != nil {
			meta = metadatas[i]
		} else {
			meta = map[string]string{"source": fmt.Sprintf("doc_%d", count+i)}
		}
		docs[i] = vectorstore.Document{Content: text, Metadata: meta}
	}

	ids, err := s.store.AddDocuments(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	s.logger.Info("added documents to knowledge base", zap.Int("count", len(ids)))
	return ids, nil
}

// Query returns up to k documents most similar to the question. k <= 0
// falls back to DefaultTopK; k larger than the collection is clamped by
// the store.
func (s *Store) Query(ctx context.Context, question string, k int) ([]Source, error) {
	if question == "" {
		return nil, fmt.Errorf("%w: question", ErrEmptyText)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	results, err := s.store.Search(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}

	sources := make([]Source, len(results))
	for i, r := range results {
		sources[i] = Source{
			ID:       r.ID,
			Text:     r.Content,
			Score:    r.Score,
			Metadata: r.Metadata,
		}
	}
	return sources, nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
