package document

import (
	"time"

	"topic-rag/internal/domain/entity"
)

// EnrichChunks turns raw chunk texts into stored chunks carrying the
// document's routing metadata. Chunk indices form a contiguous 0-based
// sequence in emission order across the whole document, including
// pre-segmented input. Optional fields (title, author, publishingYear)
// are only set when the source document carried them; stored payloads
// never contain display fallbacks.
func EnrichChunks(doc entity.SourceDocument, texts []string) []entity.Chunk {
	uploadedAt := doc.UploadedAt.UnixMilli()
	uploadedAtISO := doc.UploadedAt.UTC().Format(time.RFC3339)

	chunks := make([]entity.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = entity.Chunk{
			Text:           text,
			DocID:          doc.DocID,
			Filename:       doc.Filename,
			DocumentType:   string(doc.Type),
			Topic:          doc.Topic,
			ChunkIndex:     i,
			UploadedAt:     uploadedAt,
			UploadedAtISO:  uploadedAtISO,
			Title:          doc.Title,
			Author:         doc.Author,
			PublishingYear: doc.PublishingYear,
		}
	}
	return chunks
}
