// File: cmd/diagnostic/main.go
//
// Latency probe for the two external backends: embeds a test query and runs
// repeated similarity searches against an existing conversation collection.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cogniscript/server/internal/config"
	"github.com/cogniscript/server/internal/services"
	"github.com/cogniscript/server/internal/services/ai"
	"github.com/cogniscript/server/internal/services/vectordb"
)

func main() {
	log.Println("--- Running backend latency probe ---")

	const testRuns = 5
	const topK = 10

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg := config.Load()
	conversationID := os.Getenv("DIAGNOSTIC_CONVERSATION_ID")
	if conversationID == "" {
		log.Fatal("FATAL: DIAGNOSTIC_CONVERSATION_ID is not set; point it at a conversation with uploaded documents.")
	}

	aiConfig := ai.DefaultConfig()
	aiConfig.EmbeddingKey = cfg.AIEmbeddingKey
	aiConfig.EmbeddingBaseURL = cfg.AIEmbeddingBaseURL
	aiConfig.EmbeddingModel = cfg.EmbeddingModelName
	aiConfig.LLMKey = cfg.AILLMKey
	aiConfig.LLMBaseURL = cfg.AILLMBaseURL
	aiConfig.LLMModel = cfg.LLMModelName

	provider, err := ai.NewProvider(aiConfig, services.NewLogger("diagnostic"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	vectorConfig := vectordb.DefaultConfig()
	if err := vectorConfig.ParseURL(cfg.QdrantURL); err != nil {
		log.Fatalf("FATAL: Invalid QDRANT_URL: %v", err)
	}
	vectorConfig.APIKey = cfg.QdrantAPIKey
	vectorConfig.VectorSize = uint64(cfg.EmbeddingDimension)

	index, err := vectordb.NewManager(vectorConfig, services.NewLogger("diagnostic"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize vector index: %v", err)
	}
	defer index.Close()

	if err := index.HealthCheck(context.Background()); err != nil {
		log.Fatalf("FATAL: Vector backend unreachable: %v", err)
	}
	log.Println("Vector backend reachable.")

	testQuery := "What are the main topics covered in the uploaded documents?"
	log.Printf("Test query: %q\n", testQuery)

	startEmbedding := time.Now()
	embedding, err := provider.CreateEmbedding(context.Background(), testQuery)
	if err != nil {
		log.Fatalf("FATAL: Failed to create embedding: %v", err)
	}
	log.Printf("[TIMING] Embedding creation took: %s (dimension %d)", time.Since(startEmbedding), len(embedding))

	var totalQueryDuration time.Duration
	completed := 0
	log.Printf("[INFO] Running %d queries with topK=%d...", testRuns, topK)
	for i := 1; i <= testRuns; i++ {
		startQuery := time.Now()
		matches, err := index.Query(context.Background(), conversationID, embedding, topK)
		if err != nil {
			if errors.Is(err, vectordb.ErrCollectionNotFound) {
				log.Fatalf("FATAL: Conversation %s has no collection; upload a document first.", conversationID)
			}
			log.Printf("ERROR: Query run #%d failed: %v", i, err)
			continue
		}
		durationQuery := time.Since(startQuery)
		totalQueryDuration += durationQuery
		completed++
		log.Printf("[TIMING] Query run #%d took: %s (found %d matches)", i, durationQuery, len(matches))
	}

	if completed == 0 {
		log.Fatal("FATAL: All query runs failed.")
	}
	log.Println("\n--- Probe Summary ---")
	log.Printf("Average query latency over %d runs: %s", completed, totalQueryDuration/time.Duration(completed))
	log.Println("---------------------")
}
