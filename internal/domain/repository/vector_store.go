package repository

import (
	"context"

	"topic-rag/internal/domain/entity"
)

// ChunkPoint pairs an embedded chunk with the vector stored for it.
type ChunkPoint struct {
	ID     string
	Vector []float32
	Chunk  entity.Chunk
}

// ScoredChunk is one similarity search hit, highest score first.
type ScoredChunk struct {
	Chunk entity.Chunk
	Score float32
}

// VectorStore is the external similarity-search backend. One store serves
// every topic; each topic gets its own named collection.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	// Calling it for an existing collection is a no-op.
	EnsureCollection(ctx context.Context, collection string) error

	// Upsert writes all points in one batch. Either the whole batch is
	// accepted or an error is returned.
	Upsert(ctx context.Context, collection string, points []ChunkPoint) error

	// Search returns up to topK chunks ranked by similarity to vector.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]ScoredChunk, error)

	// CountVectors reports the number of stored vectors in a collection.
	CountVectors(ctx context.Context, collection string) (int64, error)

	// Collections lists all collections known to the backend.
	Collections(ctx context.Context) ([]string, error)
}
