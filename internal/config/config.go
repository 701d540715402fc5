// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	Environment  string

	// Embedding provider (OpenAI-compatible endpoint).
	AIEmbeddingKey     string
	AIEmbeddingBaseURL string
	EmbeddingModelName string
	EmbeddingDimension int

	// Completion provider.
	AILLMKey     string
	AILLMBaseURL string
	LLMModelName string

	// Vector index backend.
	QdrantURL    string
	QdrantAPIKey string

	// Ingestion and retrieval tuning.
	ChunkSize         int
	ChunkOverlap      int
	TokenizerEncoding string
	RetrievalTopK     int
	MaxContextTokens  int
	MaxHistoryEntries int
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "cogniscript.db"),
		Environment:  env,

		AIEmbeddingKey:     getEnv("AI_EMBEDDING_KEY", ""),
		AIEmbeddingBaseURL: getEnv("AI_EMBEDDING_BASE_URL", ""),
		// IMPORTANT: model and dimension must match any collections that
		// already exist in the index.
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "sentence-transformers/all-MiniLM-L6-v2"),
		EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),

		AILLMKey:     getEnv("AI_LLM_KEY", ""),
		AILLMBaseURL: getEnv("AI_LLM_BASE_URL", ""),
		LLMModelName: getEnv("LLM_MODEL", "gpt-4o-mini"),

		QdrantURL:    getEnv("QDRANT_URL", "localhost:6334"),
		QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),

		ChunkSize:         getEnvAsInt("CHUNK_SIZE", 500),
		ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 50),
		TokenizerEncoding: getEnv("TOKENIZER_ENCODING", "cl100k_base"),
		RetrievalTopK:     getEnvAsInt("RAG_TOPK", 5),
		MaxContextTokens:  getEnvAsInt("MAX_CONTEXT_TOKENS", 8000),
		MaxHistoryEntries: getEnvAsInt("MAX_HISTORY_ENTRIES", 10),
	}

	// Missing credentials fail fast at startup, not per request.
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.AIEmbeddingKey == "" {
			missing = append(missing, "AI_EMBEDDING_KEY")
		}
		if cfg.AILLMKey == "" {
			missing = append(missing, "AI_LLM_KEY")
		}
		if cfg.QdrantURL == "" {
			missing = append(missing, "QDRANT_URL")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
