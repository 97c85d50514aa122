package entity

// Topic is an isolated knowledge domain backed by its own vector collection.
// Topics are loaded once at startup and never mutated.
type Topic struct {
	ID             string `yaml:"-" json:"id"`
	CollectionName string `yaml:"collection_name" json:"collectionName"`
	Description    string `yaml:"description" json:"description"`
}

// TopicStats describes the live state of one topic's collection.
type TopicStats struct {
	Collection   string `json:"collection"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	VectorsCount *int64 `json:"vectors_count,omitempty"`
	Error        string `json:"error,omitempty"`
}
