// Package qdrant is a minimal REST client for the Qdrant vector backend.
// Collections are created with cosine distance and a fixed vector size;
// one collection backs one topic.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"topic-rag/internal/domain/entity"
	"topic-rag/internal/domain/repository"
)

type Config struct {
	URL        string
	APIKey     string
	VectorSize int
	Timeout    time.Duration
}

type Client struct {
	url        string
	apiKey     string
	vectorSize int
	client     *http.Client
	log        *zap.Logger
}

// compile-time interface check
var _ repository.VectorStore = (*Client)(nil)

func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		vectorSize: cfg.VectorSize,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}
}

// EnsureCollection creates the collection if missing. An existing
// collection is left untouched.
func (c *Client) EnsureCollection(ctx context.Context, collection string) error {
	exists, err := c.collectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		c.log.Info("collection already exists", zap.String("collection", collection))
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.vectorSize,
			"distance": "Cosine",
		},
	}
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", c.url, collection), body, nil); err != nil {
		return err
	}
	c.log.Info("created collection",
		zap.String("collection", collection),
		zap.Int("vector_size", c.vectorSize))
	return nil
}

// Upsert writes all points in one waited batch.
func (c *Client) Upsert(ctx context.Context, collection string, points []repository.ChunkPoint) error {
	qdrantPoints := make([]map[string]any, len(points))
	for i, p := range points {
		qdrantPoints[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Chunk,
		}
	}
	body := map[string]any{"points": qdrantPoints}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.url, collection)
	return c.doJSON(ctx, http.MethodPut, url, body, nil)
}

// Search runs a similarity query and decodes chunk payloads in rank order.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, topK int) ([]repository.ScoredChunk, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float32      `json:"score"`
			Payload entity.Chunk `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", c.url, collection)
	if err := c.doJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}

	out := make([]repository.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		out = append(out, repository.ScoredChunk{Chunk: r.Payload, Score: r.Score})
	}
	return out, nil
}

// CountVectors reads the live point count from the collection info.
func (c *Client) CountVectors(ctx context.Context, collection string) (int64, error) {
	var resp struct {
		Result struct {
			PointsCount int64 `json:"points_count"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s", c.url, collection)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Result.PointsCount, nil
}

// Collections lists all collections known to the backend.
func (c *Client) Collections(ctx context.Context) ([]string, error) {
	var resp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.url+"/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, col := range resp.Result.Collections {
		names = append(names, col.Name)
	}
	return names, nil
}

func (c *Client) collectionExists(ctx context.Context, collection string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", c.url, collection), nil)
	if err != nil {
		return false, err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("qdrant GET collection %s: %w", collection, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 300:
		return false, fmt.Errorf("qdrant GET collection %s: %s", collection, resp.Status)
	default:
		return true, nil
	}
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("qdrant %s %s failed: %s: %s", method, url, resp.Status, bytes.TrimSpace(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}
