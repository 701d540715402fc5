// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/cogniscript/server/internal/config"
	"github.com/cogniscript/server/internal/domain"
	"github.com/cogniscript/server/internal/handlers"
	"github.com/cogniscript/server/internal/middleware"
	conversationrepo "github.com/cogniscript/server/internal/repository/conversation"
	documentrepo "github.com/cogniscript/server/internal/repository/document"
	"github.com/cogniscript/server/internal/services"
	"github.com/cogniscript/server/internal/services/ai"
	"github.com/cogniscript/server/internal/services/chat"
	documentsvc "github.com/cogniscript/server/internal/services/document"
	"github.com/cogniscript/server/internal/services/vectordb"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Document{}, &domain.Conversation{}, &domain.ConversationEntry{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	conversationRepo := conversationrepo.NewConversationRepository(db)
	documentRepo := documentrepo.NewDocumentRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.EmbeddingKey = cfg.AIEmbeddingKey
	aiConfig.EmbeddingBaseURL = cfg.AIEmbeddingBaseURL
	aiConfig.EmbeddingModel = cfg.EmbeddingModelName
	aiConfig.LLMKey = cfg.AILLMKey
	aiConfig.LLMBaseURL = cfg.AILLMBaseURL
	aiConfig.LLMModel = cfg.LLMModelName

	aiProvider, err := ai.NewProvider(aiConfig, services.NewLogger("ai"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}
	aiService := ai.NewService(aiProvider, aiConfig, services.NewLogger("ai"))

	vectorConfig := vectordb.DefaultConfig()
	if err := vectorConfig.ParseURL(cfg.QdrantURL); err != nil {
		log.Fatalf("FATAL: Invalid QDRANT_URL: %v", err)
	}
	vectorConfig.APIKey = cfg.QdrantAPIKey
	vectorConfig.VectorSize = uint64(cfg.EmbeddingDimension)

	index, err := vectordb.NewManager(vectorConfig, services.NewLogger("vectordb"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize vector index: %v", err)
	}
	defer index.Close()

	docLogger := services.NewLogger("document")
	counter, err := documentsvc.NewTiktokenCounter(cfg.TokenizerEncoding)
	if err != nil {
		log.Fatalf("FATAL: Failed to load tokenizer encoding %q: %v", cfg.TokenizerEncoding, err)
	}
	chunker := documentsvc.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap, counter, docLogger)

	docConfig := documentsvc.DefaultConfig()
	docConfig.ChunkSize = cfg.ChunkSize
	docConfig.ChunkOverlap = cfg.ChunkOverlap
	docConfig.EmbeddingModel = cfg.EmbeddingModelName

	pipeline, err := documentsvc.NewPipeline(
		documentsvc.NewPDFExtractor(docLogger),
		aiService,
		index,
		documentRepo,
		chunker,
		docConfig,
		docLogger,
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize ingestion pipeline: %v", err)
	}

	chatConfig := chat.DefaultConfig()
	chatConfig.TopK = cfg.RetrievalTopK
	chatConfig.MaxContextTokens = cfg.MaxContextTokens
	chatConfig.MaxHistoryEntries = cfg.MaxHistoryEntries
	chatConfig.LLMModel = cfg.LLMModelName

	chatService, err := chat.NewService(aiService, aiService, index, conversationRepo, chatConfig, services.NewLogger("chat"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize chat service: %v", err)
	}

	// --- Handlers ---
	conversationHandler := handlers.NewConversationHandler(conversationRepo, documentRepo, index, chatService)
	documentHandler := handlers.NewDocumentHandler(pipeline, documentRepo, conversationRepo, index, "uploads")

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chats", conversationHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/chats/health", documentHandler.Health).Methods("GET")
	api.HandleFunc("/chats/vector-databases", documentHandler.ListIndexes).Methods("GET")
	api.HandleFunc("/chats/{id}", conversationHandler.GetConversation).Methods("GET")
	api.HandleFunc("/chats/{id}", conversationHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/chats/{id}/prompt", conversationHandler.Prompt).Methods("POST")
	api.HandleFunc("/chats/{id}/query", conversationHandler.Query).Methods("POST")
	api.HandleFunc("/chats/{id}/upload", documentHandler.Upload).Methods("POST")
	api.HandleFunc("/chats/{id}/documents", documentHandler.DocumentsInfo).Methods("GET")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("CogniScript server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
