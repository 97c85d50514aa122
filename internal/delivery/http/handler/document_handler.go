package handler

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"topic-rag/internal/delivery/http/dto"
	"topic-rag/internal/usecase/document"
)

type DocumentHandler struct {
	ingestor  *document.Ingestor
	metaStore *document.MetadataStore
}

func NewDocumentHandler(ingestor *document.Ingestor, metaStore *document.MetadataStore) *DocumentHandler {
	return &DocumentHandler{ingestor: ingestor, metaStore: metaStore}
}

// UploadPDF godoc
// @Summary      Upload a PDF into a topic
// @Accept       multipart/form-data
// @Produce      json
// @Param        topic  path      string  true  "Topic id"
// @Param        file   formData  file    true  "PDF file"
// @Success      201  {object}  dto.UploadDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /topics/{topic}/documents/upload/pdf [post]
func (h *DocumentHandler) UploadPDF(c *fiber.Ctx) error {
	topicID := c.Params("topic")

	filename, data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	meta, err := h.ingestor.IngestPDF(c.Context(), topicID, filename, data)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUploadDocumentResponse(meta))
}

// UploadMarkdown godoc
// @Summary      Upload a Markdown document into a topic
// @Accept       multipart/form-data
// @Produce      json
// @Param        topic  path      string  true  "Topic id"
// @Param        file   formData  file    true  "Markdown file"
// @Success      201  {object}  dto.UploadDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /topics/{topic}/documents/upload/markdown [post]
func (h *DocumentHandler) UploadMarkdown(c *fiber.Ctx) error {
	topicID := c.Params("topic")

	filename, data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	meta, err := h.ingestor.IngestMarkdown(c.Context(), topicID, filename, data)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUploadDocumentResponse(meta))
}

// ListByTopic godoc
// @Summary      List documents ingested into a topic
// @Produce      json
// @Param        topic  path  string  true  "Topic id"
// @Success      200  {object}  dto.ListDocumentsResponse
// @Router       /topics/{topic}/documents [get]
func (h *DocumentHandler) ListByTopic(c *fiber.Ctx) error {
	topicID := c.Params("topic")
	docs := h.metaStore.ListByTopic(topicID)
	return c.Status(fiber.StatusOK).JSON(dto.ListDocumentsResponse{
		Topic:     topicID,
		Count:     len(docs),
		Documents: docs,
	})
}

// readUpload pulls the multipart "file" field into memory.
func readUpload(c *fiber.Ctx) (string, []byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "missing multipart field 'file'")
	}
	data, err := readMultipartFile(file)
	if err != nil {
		return "", nil, err
	}
	return file.Filename, data, nil
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
