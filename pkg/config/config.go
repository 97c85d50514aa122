package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	TopicsFile    string
	QdrantURL     string
	QdrantKey     string
	QdrantTimeout time.Duration

	// OpenAI-compatible backends (works against Ollama as well)
	OpenAIKey            string
	OpenAIBaseURL        string
	OpenAIEmbeddingModel string
	OpenAIChatModel      string

	// rag config
	ChunkWindow       int
	ChunkOverlap      int
	TopKResults       int
	CrossTopicTopK    int
	VectorSize        int
	CrossTopicTimeout time.Duration
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		TopicsFile:    getEnv("TOPICS_CONFIG", "configs/topics.yaml"),
		QdrantURL:     getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantTimeout: getEnvDuration("QDRANT_TIMEOUT", 15*time.Second),

		OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "http://localhost:11434/v1"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "nomic-embed-text"),
		OpenAIChatModel:      getEnv("OPENAI_CHAT_MODEL", "llama3.1"),

		ChunkWindow:       getEnvInt("CHUNK_WINDOW", 800),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", 400),
		TopKResults:       getEnvInt("TOP_K_RESULTS", 5),
		CrossTopicTopK:    getEnvInt("CROSS_TOPIC_TOP_K", 3),
		VectorSize:        getEnvInt("VECTOR_SIZE", 768),
		CrossTopicTimeout: getEnvDuration("CROSS_TOPIC_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
