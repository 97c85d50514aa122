package topic

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"topic-rag/internal/domain/entity"
	"topic-rag/internal/domain/repository"
)

// IndexHandle is the per-topic reference to the backing vector collection.
// Exactly one handle exists per topic for the process lifetime.
type IndexHandle struct {
	Topic      string
	Collection string
	Store      repository.VectorStore
}

// IndexCache hands out IndexHandles, creating the backing collection at
// most once per topic no matter how many callers race on first access.
//
// The lookup map is guarded by a RWMutex that is never held across a
// backend call; concurrent first accesses for the same topic are collapsed
// into a single collection creation by the singleflight group. A failed
// creation is not recorded, so the next caller retries it.
type IndexCache struct {
	catalog *Catalog
	store   repository.VectorStore
	log     *zap.Logger

	mu      sync.RWMutex
	handles map[string]*IndexHandle
	flight  singleflight.Group
}

func NewIndexCache(catalog *Catalog, store repository.VectorStore, log *zap.Logger) *IndexCache {
	return &IndexCache{
		catalog: catalog,
		store:   store,
		log:     log,
		handles: make(map[string]*IndexHandle),
	}
}

// GetOrCreate returns the handle for a topic, creating the backing
// collection on first access. Fails with entity.ErrUnknownTopic for
// unconfigured topics and entity.ErrIndexCreation when the backend
// refuses the collection.
func (c *IndexCache) GetOrCreate(ctx context.Context, topicID string) (*IndexHandle, error) {
	collection, err := c.catalog.CollectionName(topicID)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	h, ok := c.handles[topicID]
	c.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := c.flight.Do(topicID, func() (interface{}, error) {
		// Re-check under the flight: a previous flight may have
		// inserted the handle between our miss and this call.
		c.mu.RLock()
		h, ok := c.handles[topicID]
		c.mu.RUnlock()
		if ok {
			return h, nil
		}

		if err := c.store.EnsureCollection(ctx, collection); err != nil {
			c.log.Error("failed to create collection",
				zap.String("topic", topicID),
				zap.String("collection", collection),
				zap.Error(err))
			return nil, fmt.Errorf("%w for topic %s (collection %s): %v",
				entity.ErrIndexCreation, topicID, collection, err)
		}

		h = &IndexHandle{Topic: topicID, Collection: collection, Store: c.store}
		c.mu.Lock()
		c.handles[topicID] = h
		c.mu.Unlock()

		c.log.Info("created vector index handle",
			zap.String("topic", topicID),
			zap.String("collection", collection))
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*IndexHandle), nil
}

// Stats reports per-topic collection stats. A count failure for one topic
// yields an error entry for that topic only.
func (c *IndexCache) Stats(ctx context.Context) map[string]entity.TopicStats {
	stats := make(map[string]entity.TopicStats)

	for _, t := range c.catalog.All() {
		count, err := c.store.CountVectors(ctx, t.CollectionName)
		if err != nil {
			c.log.Warn("failed to get vector count",
				zap.String("topic", t.ID),
				zap.String("collection", t.CollectionName),
				zap.Error(err))
			stats[t.ID] = entity.TopicStats{
				Collection:  t.CollectionName,
				Description: t.Description,
				Status:      "error",
				Error:       err.Error(),
			}
			continue
		}
		stats[t.ID] = entity.TopicStats{
			Collection:   t.CollectionName,
			Description:  t.Description,
			Status:       "active",
			VectorsCount: &count,
		}
	}

	return stats
}
