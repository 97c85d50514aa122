package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"topic-rag/internal/adapter/openai"
	"topic-rag/internal/adapter/qdrant"
	"topic-rag/internal/delivery/http/handler"
	"topic-rag/internal/domain/repository"
	"topic-rag/internal/usecase/document"
	"topic-rag/internal/usecase/rag"
	"topic-rag/internal/usecase/topic"
	"topic-rag/pkg/config"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	catalog, err := topic.LoadCatalog(cfg.TopicsFile)
	if err != nil {
		log.Fatal("failed to load topic catalog", zap.String("path", cfg.TopicsFile), zap.Error(err))
	}
	log.Info("loaded topic catalog", zap.Int("topics", len(catalog.All())))

	// vector backend
	store := qdrant.NewClient(qdrant.Config{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantKey,
		VectorSize: cfg.VectorSize,
		Timeout:    cfg.QdrantTimeout,
	}, log)

	// embedding and generation backends
	embedder := openai.NewEmbeddingClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIEmbeddingModel)
	chat := openai.NewChatClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIChatModel)

	chunker, err := document.NewChunker(cfg.ChunkWindow, cfg.ChunkOverlap)
	if err != nil {
		log.Fatal("failed to create chunker", zap.Error(err))
	}

	cache := topic.NewIndexCache(catalog, store, log)
	metaStore := document.NewMetadataStore()
	ingestor := document.NewIngestor(catalog, cache, embedder, chunker, metaStore, log)
	engine := rag.NewEngine(catalog, cache, embedder, chat, rag.Options{
		DefaultTopK:       cfg.TopKResults,
		CrossTopicTopK:    cfg.CrossTopicTopK,
		CrossTopicTimeout: cfg.CrossTopicTimeout,
	}, log)

	initCollections(catalog, store, log)

	topicHandler := handler.NewTopicHandler(catalog, cache)
	docHandler := handler.NewDocumentHandler(ingestor, metaStore)
	queryHandler := handler.NewQueryHandler(engine)
	healthHandler := handler.NewHealthHandler(catalog, cache, store)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})
	app.Use(logger.New())

	app.Get("/health", healthHandler.Health)
	app.Get("/topics", topicHandler.GetTopics)
	app.Get("/topics/stats", topicHandler.GetStats)
	app.Get("/topics/:topic/documents", docHandler.ListByTopic)
	app.Post("/topics/:topic/documents/upload/pdf", docHandler.UploadPDF)
	app.Post("/topics/:topic/documents/upload/markdown", docHandler.UploadMarkdown)
	app.Post("/topics/:topic/query", queryHandler.QueryTopic)
	app.Post("/query/cross", queryHandler.QueryCross)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// initCollections makes sure every configured topic has its backing
// collection at startup. Creation is idempotent and a failure for one
// topic is logged without aborting the others.
func initCollections(catalog *topic.Catalog, store repository.VectorStore, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info("initializing collections for all topics")
	for _, t := range catalog.All() {
		if err := store.EnsureCollection(ctx, t.CollectionName); err != nil {
			log.Error("failed to initialize collection",
				zap.String("topic", t.ID),
				zap.String("collection", t.CollectionName),
				zap.Error(err))
			continue
		}
		log.Info("collection ready",
			zap.String("topic", t.ID),
			zap.String("collection", t.CollectionName))
	}
	log.Info("collection initialization complete")
}
