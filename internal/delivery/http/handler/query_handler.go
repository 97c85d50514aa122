package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"topic-rag/internal/delivery/http/dto"
	"topic-rag/internal/usecase/rag"
)

type QueryHandler struct {
	engine *rag.Engine
}

func NewQueryHandler(engine *rag.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// QueryTopic godoc
// @Summary      Ask a question against one topic
// @Accept       json
// @Produce      json
// @Param        topic    path  string            true  "Topic id"
// @Param        request  body  dto.QueryRequest  true  "Question"
// @Success      200  {object}  dto.QueryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /topics/{topic}/query [post]
func (h *QueryHandler) QueryTopic(c *fiber.Ctx) error {
	topicID := c.Params("topic")

	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query must not be empty"})
	}

	result, err := h.engine.QueryTopic(c.Context(), topicID, req.Query, req.TopK)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.QueryResponse{
		Query:       result.Query,
		Topic:       result.Topic,
		Answer:      result.Answer,
		SourceCount: result.SourceCount,
		Sources:     result.Sources,
	})
}

// QueryCross godoc
// @Summary      Ask a question across several topics
// @Accept       json
// @Produce      json
// @Param        topics   query  string            true  "Comma-separated topic ids"
// @Param        request  body   dto.QueryRequest  true  "Question"
// @Success      200  {object}  dto.QueryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /query/cross [post]
func (h *QueryHandler) QueryCross(c *fiber.Ctx) error {
	topics := splitTopics(c.Query("topics"))
	if len(topics) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query parameter 'topics' must list at least one topic"})
	}

	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query must not be empty"})
	}

	result, err := h.engine.QueryCrossTopic(c.Context(), topics, req.Query)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.QueryResponse{
		Query:       result.Query,
		Topics:      result.Topics,
		Answer:      result.Answer,
		SourceCount: result.SourceCount,
	})
}

func splitTopics(raw string) []string {
	var topics []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			topics = append(topics, part)
		}
	}
	return topics
}
