package dto

import "topic-rag/internal/domain/entity"

type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

type QueryResponse struct {
	Query       string                   `json:"query"`
	Topic       string                   `json:"topic,omitempty"`
	Topics      []string                 `json:"topics,omitempty"`
	Answer      string                   `json:"answer"`
	SourceCount int                      `json:"sourceCount"`
	Sources     []entity.SourceReference `json:"sources,omitempty"`
}

type TopicInfo struct {
	CollectionName string `json:"collectionName"`
	Description    string `json:"description"`
}

type HealthResponse struct {
	Status           string                       `json:"status"`
	Timestamp        int64                        `json:"timestamp"`
	TopicsConfigured int                          `json:"topics_configured"`
	Topics           []string                     `json:"topics"`
	DatabaseStatus   string                       `json:"database_status"`
	Collections      map[string]entity.TopicStats `json:"collections,omitempty"`
	Error            string                       `json:"error,omitempty"`
}
