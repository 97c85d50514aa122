package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"topic-rag/internal/domain/entity"
	"topic-rag/internal/domain/repository"
	"topic-rag/internal/usecase/topic"
)

// Embedder turns chunk texts into vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Ingestor runs the ingestion pipeline: extract, chunk, enrich, embed and
// hand the whole batch to the topic's index.
type Ingestor struct {
	catalog   *topic.Catalog
	cache     *topic.IndexCache
	embedder  Embedder
	extractor *TextExtractor
	chunker   *Chunker
	metaStore *MetadataStore
	log       *zap.Logger
}

func NewIngestor(
	catalog *topic.Catalog,
	cache *topic.IndexCache,
	embedder Embedder,
	chunker *Chunker,
	metaStore *MetadataStore,
	log *zap.Logger,
) *Ingestor {
	return &Ingestor{
		catalog:   catalog,
		cache:     cache,
		embedder:  embedder,
		extractor: NewTextExtractor(),
		chunker:   chunker,
		metaStore: metaStore,
		log:       log,
	}
}

// IngestPDF extracts text and metadata from a PDF and indexes it into the
// topic's collection.
func (uc *Ingestor) IngestPDF(ctx context.Context, topicID, filename string, data []byte) (*entity.DocumentMetadata, error) {
	if !uc.catalog.Has(topicID) {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownTopic, topicID)
	}

	content, err := uc.extractor.ExtractPDF(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrExtraction, err)
	}

	doc := entity.SourceDocument{
		DocID:          uuid.NewString(),
		Filename:       filename,
		Type:           entity.TypePDF,
		Topic:          topicID,
		UploadedAt:     time.Now(),
		Title:          content.Title,
		Author:         content.Author,
		PublishingYear: content.PublishingYear,
	}

	texts := uc.chunker.Split(content.Text)
	return uc.index(ctx, doc, texts)
}

// IngestMarkdown pre-splits the content on section delimiters, chunks each
// section independently and indexes the renumbered sequence.
func (uc *Ingestor) IngestMarkdown(ctx context.Context, topicID, filename string, data []byte) (*entity.DocumentMetadata, error) {
	if !uc.catalog.Has(topicID) {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownTopic, topicID)
	}

	sections := SplitMarkdownSections(string(data))
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: markdown file %s contains no content", entity.ErrExtraction, filename)
	}

	doc := entity.SourceDocument{
		DocID:      uuid.NewString(),
		Filename:   filename,
		Type:       entity.TypeMarkdown,
		Topic:      topicID,
		UploadedAt: time.Now(),
	}

	texts := uc.chunker.SplitSegments(sections)
	return uc.index(ctx, doc, texts)
}

// index embeds all chunks in one batch and upserts them atomically into
// the topic's collection.
func (uc *Ingestor) index(ctx context.Context, doc entity.SourceDocument, texts []string) (*entity.DocumentMetadata, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no text extracted from %s", entity.ErrExtraction, doc.Filename)
	}
	uc.log.Info("chunked document",
		zap.String("topic", doc.Topic),
		zap.String("filename", doc.Filename),
		zap.Int("chunks", len(texts)))

	chunks := EnrichChunks(doc, texts)

	vectors, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d chunks of %s: %w", len(texts), doc.Filename, err)
	}

	handle, err := uc.cache.GetOrCreate(ctx, doc.Topic)
	if err != nil {
		return nil, err
	}

	points := make([]repository.ChunkPoint, len(chunks))
	for i, chunk := range chunks {
		points[i] = repository.ChunkPoint{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Chunk:  chunk,
		}
	}
	if err := handle.Store.Upsert(ctx, handle.Collection, points); err != nil {
		return nil, fmt.Errorf("store %d chunks in collection %s: %w", len(points), handle.Collection, err)
	}

	uc.log.Info("indexed document",
		zap.String("topic", doc.Topic),
		zap.String("collection", handle.Collection),
		zap.String("docId", doc.DocID),
		zap.Int("chunks", len(chunks)))

	meta := entity.DocumentMetadata{
		ID:             doc.DocID,
		Filename:       doc.Filename,
		Title:          doc.Title,
		Author:         doc.Author,
		PublishingYear: doc.PublishingYear,
		Type:           doc.Type,
		Topic:          doc.Topic,
		ChunksCount:    len(chunks),
		UploadedAt:     doc.UploadedAt.UnixMilli(),
	}
	// Display fallbacks live only in the summary, never in stored chunks.
	if meta.Title == "" {
		meta.Title = doc.Filename
	}
	if meta.Author == "" {
		meta.Author = "Unknown"
	}
	uc.metaStore.Store(meta)

	return &meta, nil
}
