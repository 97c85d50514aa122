package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"topic-rag/internal/delivery/http/dto"
	"topic-rag/internal/domain/entity"
)

// errorJSON maps the error kinds onto HTTP statuses and renders the
// {"error": ...} body.
func errorJSON(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrUnknownTopic):
		status = fiber.StatusNotFound
	case errors.Is(err, entity.ErrExtraction):
		status = fiber.StatusBadRequest
	case errors.Is(err, entity.ErrNoTopicsSucceeded):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error()})
}
