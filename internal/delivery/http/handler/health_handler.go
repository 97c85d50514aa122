package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"topic-rag/internal/delivery/http/dto"
	"topic-rag/internal/domain/repository"
	"topic-rag/internal/usecase/topic"
)

type HealthHandler struct {
	catalog *topic.Catalog
	cache   *topic.IndexCache
	store   repository.VectorStore
}

func NewHealthHandler(catalog *topic.Catalog, cache *topic.IndexCache, store repository.VectorStore) *HealthHandler {
	return &HealthHandler{catalog: catalog, cache: cache, store: store}
}

// Health godoc
// @Summary      Service and vector backend health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	topics := h.catalog.All()
	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}

	resp := dto.HealthResponse{
		Status:           "UP",
		Timestamp:        time.Now().UnixMilli(),
		TopicsConfigured: len(topics),
		Topics:           ids,
	}

	if _, err := h.store.Collections(c.Context()); err != nil {
		resp.DatabaseStatus = "DISCONNECTED"
		resp.Error = err.Error()
	} else {
		resp.DatabaseStatus = "CONNECTED"
		resp.Collections = h.cache.Stats(c.Context())
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
