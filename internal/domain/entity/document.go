package entity

import "time"

type DocumentType string

const (
	TypePDF      DocumentType = "pdf"
	TypeMarkdown DocumentType = "markdown"
)

// SourceDocument is the transient description of one uploaded file while it
// is being ingested. Only the derived chunks are persisted.
type SourceDocument struct {
	DocID          string
	Filename       string
	Type           DocumentType
	Topic          string
	UploadedAt     time.Time
	Title          string
	Author         string
	PublishingYear *int
}

// Chunk is the unit of storage and retrieval: a bounded slice of one
// document's text plus the routing metadata stored alongside the vector.
// Optional fields are omitted from the payload when the source document
// did not carry them.
type Chunk struct {
	Text           string `json:"text"`
	DocID          string `json:"docId"`
	Filename       string `json:"filename"`
	DocumentType   string `json:"documentType"`
	Topic          string `json:"topic"`
	ChunkIndex     int    `json:"chunkIndex"`
	UploadedAt     int64  `json:"uploadedAt"`
	UploadedAtISO  string `json:"uploadedAtISO"`
	Title          string `json:"title,omitempty"`
	Author         string `json:"author,omitempty"`
	PublishingYear *int   `json:"publishingYear,omitempty"`
}

// DocumentMetadata is the ingestion summary kept per document. Unlike chunk
// payloads it carries display fallbacks (filename for title, "Unknown" for
// author) because it is only ever shown to callers.
type DocumentMetadata struct {
	ID             string       `json:"id"`
	Filename       string       `json:"filename"`
	Title          string       `json:"title"`
	Author         string       `json:"author,omitempty"`
	PublishingYear *int         `json:"publishingYear,omitempty"`
	Type           DocumentType `json:"type"`
	Topic          string       `json:"topic"`
	ChunksCount    int          `json:"chunksCount"`
	UploadedAt     int64        `json:"uploadedAt"`
}
