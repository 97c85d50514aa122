package handler

import (
	"github.com/gofiber/fiber/v2"

	"topic-rag/internal/delivery/http/dto"
	"topic-rag/internal/usecase/topic"
)

type TopicHandler struct {
	catalog *topic.Catalog
	cache   *topic.IndexCache
}

func NewTopicHandler(catalog *topic.Catalog, cache *topic.IndexCache) *TopicHandler {
	return &TopicHandler{catalog: catalog, cache: cache}
}

// GetTopics godoc
// @Summary      List configured topics
// @Produce      json
// @Success      200  {object}  map[string]dto.TopicInfo
// @Router       /topics [get]
func (h *TopicHandler) GetTopics(c *fiber.Ctx) error {
	topics := make(map[string]dto.TopicInfo)
	for _, t := range h.catalog.All() {
		topics[t.ID] = dto.TopicInfo{
			CollectionName: t.CollectionName,
			Description:    t.Description,
		}
	}
	return c.Status(fiber.StatusOK).JSON(topics)
}

// GetStats godoc
// @Summary      Per-topic collection stats
// @Produce      json
// @Success      200  {object}  map[string]entity.TopicStats
// @Router       /topics/stats [get]
func (h *TopicHandler) GetStats(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.cache.Stats(c.Context()))
}
