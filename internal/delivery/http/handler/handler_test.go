package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"topic-rag/internal/delivery/http/dto"
	"topic-rag/internal/domain/entity"
	"topic-rag/internal/domain/repository"
	"topic-rag/internal/usecase/document"
	"topic-rag/internal/usecase/rag"
	"topic-rag/internal/usecase/topic"
)

const handlerCatalogYAML = `
topics:
  ai:
    collection_name: ai_documents
    description: Machine learning
  pentesting:
    collection_name: pentesting_documents
    description: Offensive security
`

// memoryStore keeps upserted points per collection and serves them back
// from Search, so uploads become queryable within a test.
type memoryStore struct {
	mu          sync.Mutex
	points      map[string][]repository.ChunkPoint
	listErr     error
	collections []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{points: make(map[string][]repository.ChunkPoint)}
}

func (s *memoryStore) EnsureCollection(ctx context.Context, collection string) error { return nil }

func (s *memoryStore) Upsert(ctx context.Context, collection string, points []repository.ChunkPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[collection] = append(s.points[collection], points...)
	return nil
}

func (s *memoryStore) Search(ctx context.Context, collection string, vector []float32, topK int) ([]repository.ScoredChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []repository.ScoredChunk
	for _, p := range s.points[collection] {
		if len(hits) == topK {
			break
		}
		hits = append(hits, repository.ScoredChunk{Chunk: p.Chunk, Score: 0.9})
	}
	return hits, nil
}

func (s *memoryStore) CountVectors(ctx context.Context, collection string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.points[collection])), nil
}

func (s *memoryStore) Collections(ctx context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.collections, nil
}

// fakeModel backs both the embedding and generation seams.
type fakeModel struct{}

func (fakeModel) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (fakeModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func (fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	return "generated answer", nil
}

type byteCodec struct{}

func (byteCodec) Encode(text string) []int {
	tokens := make([]int, len(text))
	for i := range text {
		tokens[i] = int(text[i])
	}
	return tokens
}

func (byteCodec) Decode(tokens []int) string {
	b := make([]byte, len(tokens))
	for i, tok := range tokens {
		b[i] = byte(tok)
	}
	return string(b)
}

func newTestApp(t *testing.T, store repository.VectorStore) *fiber.App {
	t.Helper()

	catalog, err := topic.ParseCatalog([]byte(handlerCatalogYAML))
	require.NoError(t, err)

	log := zap.NewNop()
	cache := topic.NewIndexCache(catalog, store, log)
	chunker, err := document.NewChunkerWithCodec(200, 20, byteCodec{})
	require.NoError(t, err)
	metaStore := document.NewMetadataStore()
	ingestor := document.NewIngestor(catalog, cache, fakeModel{}, chunker, metaStore, log)
	engine := rag.NewEngine(catalog, cache, fakeModel{}, fakeModel{}, rag.Options{}, log)

	topicHandler := NewTopicHandler(catalog, cache)
	docHandler := NewDocumentHandler(ingestor, metaStore)
	queryHandler := NewQueryHandler(engine)
	healthHandler := NewHealthHandler(catalog, cache, store)

	app := fiber.New()
	app.Get("/health", healthHandler.Health)
	app.Get("/topics", topicHandler.GetTopics)
	app.Get("/topics/stats", topicHandler.GetStats)
	app.Get("/topics/:topic/documents", docHandler.ListByTopic)
	app.Post("/topics/:topic/documents/upload/pdf", docHandler.UploadPDF)
	app.Post("/topics/:topic/documents/upload/markdown", docHandler.UploadMarkdown)
	app.Post("/topics/:topic/query", queryHandler.QueryTopic)
	app.Post("/query/cross", queryHandler.QueryCross)
	return app
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestGetTopics(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/topics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var topics map[string]dto.TopicInfo
	decodeBody(t, resp, &topics)
	require.Len(t, topics, 2)
	assert.Equal(t, "ai_documents", topics["ai"].CollectionName)
	assert.Equal(t, "Offensive security", topics["pentesting"].Description)
}

func TestGetStats(t *testing.T) {
	store := newMemoryStore()
	store.points["ai_documents"] = []repository.ChunkPoint{{ID: "p1"}, {ID: "p2"}}
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/topics/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats map[string]entity.TopicStats
	decodeBody(t, resp, &stats)
	require.Contains(t, stats, "ai")
	assert.Equal(t, "active", stats["ai"].Status)
	require.NotNil(t, stats["ai"].VectorsCount)
	assert.Equal(t, int64(2), *stats["ai"].VectorsCount)
}

func TestUploadMarkdown(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	body, contentType := multipartBody(t, "notes.md", "# Notes\nuseful content")
	req := httptest.NewRequest(http.MethodPost, "/topics/ai/documents/upload/markdown", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded dto.UploadDocumentResponse
	decodeBody(t, resp, &uploaded)
	assert.NotEmpty(t, uploaded.ID)
	assert.Equal(t, "notes.md", uploaded.Filename)
	assert.Equal(t, "markdown", uploaded.Type)
	assert.Equal(t, "ai", uploaded.Topic)
	assert.Equal(t, "indexed", uploaded.Status)
	assert.Equal(t, 1, uploaded.ChunksCount)
}

func TestUploadMarkdownUnknownTopic(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	body, contentType := multipartBody(t, "notes.md", "content")
	req := httptest.NewRequest(http.MethodPost, "/topics/cooking/documents/upload/markdown", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadMissingFileField(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/topics/ai/documents/upload/markdown", strings.NewReader(""))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadEmptyMarkdown(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	body, contentType := multipartBody(t, "empty.md", "---\n---")
	req := httptest.NewRequest(http.MethodPost, "/topics/ai/documents/upload/markdown", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListDocumentsAfterUpload(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	body, contentType := multipartBody(t, "notes.md", "content")
	req := httptest.NewRequest(http.MethodPost, "/topics/ai/documents/upload/markdown", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/topics/ai/documents", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listed dto.ListDocumentsResponse
	decodeBody(t, resp, &listed)
	assert.Equal(t, "ai", listed.Topic)
	assert.Equal(t, 1, listed.Count)
	require.Len(t, listed.Documents, 1)
	assert.Equal(t, "notes.md", listed.Documents[0].Filename)
}

func TestQueryTopicAfterUpload(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	body, contentType := multipartBody(t, "notes.md", "gradient descent explained")
	req := httptest.NewRequest(http.MethodPost, "/topics/ai/documents/upload/markdown", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodPost, "/topics/ai/query", strings.NewReader(`{"query":"what is gradient descent?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var answer dto.QueryResponse
	decodeBody(t, resp, &answer)
	assert.Equal(t, "what is gradient descent?", answer.Query)
	assert.Equal(t, "ai", answer.Topic)
	assert.Equal(t, "generated answer", answer.Answer)
	assert.Equal(t, 1, answer.SourceCount)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "notes.md", answer.Sources[0].Filename)
}

func TestQueryTopicEmptyQuery(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/topics/ai/query", strings.NewReader(`{"query":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQueryTopicUnknownTopic(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/topics/cooking/query", strings.NewReader(`{"query":"question"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errBody dto.ErrorResponse
	decodeBody(t, resp, &errBody)
	assert.Contains(t, errBody.Error, "cooking")
}

func TestQueryCrossMissingTopicsParam(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/query/cross", strings.NewReader(`{"query":"question"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQueryCross(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/query/cross?topics=ai,pentesting", strings.NewReader(`{"query":"how do the fields overlap?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var answer dto.QueryResponse
	decodeBody(t, resp, &answer)
	assert.Equal(t, []string{"ai", "pentesting"}, answer.Topics)
	assert.Empty(t, answer.Topic)
	assert.Equal(t, "generated answer", answer.Answer)
}

func TestQueryCrossAllUnknown(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/query/cross?topics=cooking,gardening", strings.NewReader(`{"query":"question"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthConnected(t *testing.T) {
	app := newTestApp(t, newMemoryStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	decodeBody(t, resp, &health)
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, "CONNECTED", health.DatabaseStatus)
	assert.Equal(t, 2, health.TopicsConfigured)
	assert.ElementsMatch(t, []string{"ai", "pentesting"}, health.Topics)
	assert.Contains(t, health.Collections, "ai")
}

func TestHealthDisconnected(t *testing.T) {
	store := newMemoryStore()
	store.listErr = errors.New("connection refused")
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	decodeBody(t, resp, &health)
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, "DISCONNECTED", health.DatabaseStatus)
	assert.Equal(t, "connection refused", health.Error)
	assert.Empty(t, health.Collections)
}
