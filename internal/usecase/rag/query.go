package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"topic-rag/internal/domain/entity"
	"topic-rag/internal/domain/repository"
	"topic-rag/internal/usecase/topic"
)

// Embedder turns a question into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a completion for an assembled prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of a single- or cross-topic query.
type Result struct {
	Query       string
	Topic       string
	Topics      []string
	Answer      string
	SourceCount int
	Sources     []entity.SourceReference
}

type Options struct {
	DefaultTopK       int
	CrossTopicTopK    int
	CrossTopicTimeout time.Duration
}

// Engine answers questions grounded in one topic's retrieved chunks, or
// synthesized across several topics.
type Engine struct {
	catalog   *topic.Catalog
	cache     *topic.IndexCache
	embedder  Embedder
	generator Generator
	opts      Options
	log       *zap.Logger
}

func NewEngine(catalog *topic.Catalog, cache *topic.IndexCache, embedder Embedder, generator Generator, opts Options, log *zap.Logger) *Engine {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 5
	}
	if opts.CrossTopicTopK <= 0 {
		opts.CrossTopicTopK = 3
	}
	if opts.CrossTopicTimeout <= 0 {
		opts.CrossTopicTimeout = 30 * time.Second
	}
	return &Engine{
		catalog:   catalog,
		cache:     cache,
		embedder:  embedder,
		generator: generator,
		opts:      opts,
		log:       log,
	}
}

// QueryTopic retrieves the topK most similar chunks from one topic's index
// and generates a grounded answer from them.
func (e *Engine) QueryTopic(ctx context.Context, topicID, query string, topK int) (*Result, error) {
	t, ok := e.catalog.Get(topicID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownTopic, topicID)
	}
	if topK <= 0 {
		topK = e.opts.DefaultTopK
	}

	e.log.Info("rag query", zap.String("topic", topicID), zap.String("query", query), zap.Int("topK", topK))

	hits, err := e.retrieve(ctx, topicID, query, topK)
	if err != nil {
		return nil, err
	}
	e.log.Info("retrieved chunks", zap.String("topic", topicID), zap.Int("count", len(hits)))

	contextText, sources := assembleContext(hits)

	prompt := groundedPrompt(t.Description, topicID, contextText, query)
	answer, err := e.generator.Complete(ctx, prompt)
	if err != nil {
		e.log.Error("generation failed", zap.String("topic", topicID), zap.Error(err))
		return nil, fmt.Errorf("%w for topic %s: %v", entity.ErrGeneration, topicID, err)
	}

	return &Result{
		Query:       query,
		Topic:       topicID,
		Answer:      answer,
		SourceCount: len(hits),
		Sources:     sources,
	}, nil
}

// retrieve embeds the query and searches one topic's collection.
func (e *Engine) retrieve(ctx context.Context, topicID, query string, topK int) ([]repository.ScoredChunk, error) {
	handle, err := e.cache.GetOrCreate(ctx, topicID)
	if err != nil {
		return nil, err
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w for topic %s: embed query: %v", entity.ErrRetrieval, topicID, err)
	}

	hits, err := handle.Store.Search(ctx, handle.Collection, vector, topK)
	if err != nil {
		e.log.Error("similarity search failed",
			zap.String("topic", topicID),
			zap.String("collection", handle.Collection),
			zap.Error(err))
		return nil, fmt.Errorf("%w for topic %s: %v", entity.ErrRetrieval, topicID, err)
	}
	return hits, nil
}

// assembleContext renders retrieved chunks into labelled context blocks in
// rank order and collects source references deduplicated by filename,
// first occurrence winning.
func assembleContext(hits []repository.ScoredChunk) (string, []entity.SourceReference) {
	var b strings.Builder
	var sources []entity.SourceReference
	seen := make(map[string]bool)

	for _, hit := range hits {
		chunk := hit.Chunk

		filename := chunk.Filename
		if filename == "" {
			filename = "unknown"
		}
		title := chunk.Title
		if title == "" {
			title = filename
		}
		author := chunk.Author
		if author == "" {
			author = "Unknown"
		}

		b.WriteString("--- Source: ")
		b.WriteString(filename)
		if title != filename {
			b.WriteString(" (Title: ")
			b.WriteString(title)
			b.WriteString(")")
		}
		if author != "Unknown" {
			b.WriteString(" | Author: ")
			b.WriteString(author)
		}
		if chunk.PublishingYear != nil {
			fmt.Fprintf(&b, " | Year: %d", *chunk.PublishingYear)
		}
		b.WriteString(" ---\n")
		b.WriteString(chunk.Text)
		b.WriteString("\n\n")

		if !seen[filename] {
			seen[filename] = true
			docType := chunk.DocumentType
			if docType == "" {
				docType = "unknown"
			}
			sources = append(sources, entity.SourceReference{
				Filename:       filename,
				Title:          title,
				Author:         author,
				PublishingYear: chunk.PublishingYear,
				Type:           docType,
			})
		}
	}

	return b.String(), sources
}
