package dto

import "topic-rag/internal/domain/entity"

type UploadDocumentResponse struct {
	ID             string `json:"id"`
	Filename       string `json:"filename"`
	Title          string `json:"title"`
	Author         string `json:"author,omitempty"`
	PublishingYear *int   `json:"publishingYear,omitempty"`
	Type           string `json:"type"`
	Topic          string `json:"topic"`
	ChunksCount    int    `json:"chunksCount"`
	Status         string `json:"status"`
	UploadedAt     int64  `json:"uploadedAt"`
}

// NewUploadDocumentResponse maps an ingestion summary to the response shape.
func NewUploadDocumentResponse(meta *entity.DocumentMetadata) UploadDocumentResponse {
	return UploadDocumentResponse{
		ID:             meta.ID,
		Filename:       meta.Filename,
		Title:          meta.Title,
		Author:         meta.Author,
		PublishingYear: meta.PublishingYear,
		Type:           string(meta.Type),
		Topic:          meta.Topic,
		ChunksCount:    meta.ChunksCount,
		Status:         "indexed",
		UploadedAt:     meta.UploadedAt,
	}
}

type ListDocumentsResponse struct {
	Topic     string                    `json:"topic"`
	Count     int                       `json:"count"`
	Documents []entity.DocumentMetadata `json:"documents"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
