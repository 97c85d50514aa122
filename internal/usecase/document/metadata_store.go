package document

import (
	"sync"

	"topic-rag/internal/domain/entity"
)

// MetadataStore is an in-process registry of ingestion summaries keyed by
// document id. It exists so callers can list what a topic holds without
// touching the vector backend.
type MetadataStore struct {
	mu    sync.RWMutex
	docs  map[string]entity.DocumentMetadata
	order []string
}

func NewMetadataStore() *MetadataStore {
	return &MetadataStore{docs: make(map[string]entity.DocumentMetadata)}
}

func (s *MetadataStore) Store(meta entity.DocumentMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[meta.ID]; !ok {
		s.order = append(s.order, meta.ID)
	}
	s.docs[meta.ID] = meta
}

func (s *MetadataStore) Get(id string) (entity.DocumentMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.docs[id]
	return meta, ok
}

// ListByTopic returns summaries for one topic in ingestion order.
func (s *MetadataStore) ListByTopic(topic string) []entity.DocumentMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.DocumentMetadata, 0)
	for _, id := range s.order {
		if meta := s.docs[id]; meta.Topic == topic {
			out = append(out, meta)
		}
	}
	return out
}
