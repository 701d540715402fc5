// File: internal/handlers/conversation_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/cogniscript/server/internal/domain"
	conversationrepo "github.com/cogniscript/server/internal/repository/conversation"
	documentrepo "github.com/cogniscript/server/internal/repository/document"
	"github.com/cogniscript/server/internal/services/chat"
	"github.com/cogniscript/server/internal/services/vectordb"
)

type ConversationHandler struct {
	Conversations conversationrepo.ConversationRepository
	Documents     documentrepo.DocumentRepository
	Index         vectordb.Index
	ChatService   *chat.Service
}

func NewConversationHandler(
	conversations conversationrepo.ConversationRepository,
	documents documentrepo.DocumentRepository,
	index vectordb.Index,
	chatService *chat.Service,
) *ConversationHandler {
	return &ConversationHandler{
		Conversations: conversations,
		Documents:     documents,
		Index:         index,
		ChatService:   chatService,
	}
}

// CreateConversation creates a conversation thread and its vector collection.
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		writeError(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		req.Title = "New Chat"
	}

	conv := &domain.Conversation{
		ConversationID: uuid.New().String(),
		UserID:         req.UserID,
		Title:          req.Title,
		Status:         "active",
	}
	if _, err := h.Conversations.Create(r.Context(), conv); err != nil {
		writeError(w, "Could not create conversation", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"message":         "Conversation and vector collection created successfully",
		"conversation_id": conv.ConversationID,
		"user_id":         conv.UserID,
		"title":           conv.Title,
		"collection_name": vectordb.CollectionName(conv.ConversationID),
	}

	// A collection failure does not undo the conversation; the collection
	// is ensured again on first upload.
	if _, err := h.Index.EnsureCollection(r.Context(), conv.ConversationID); err != nil {
		response["message"] = "Conversation created, but vector collection setup failed"
		response["vector_db_warning"] = err.Error()
	}

	writeJSON(w, http.StatusCreated, response)
}

// GetConversation returns the thread together with its full history.
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	conv, err := h.Conversations.FindByConversationID(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, conversationrepo.ErrConversationNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve conversation", http.StatusInternalServerError)
		return
	}

	history, err := h.Conversations.GetHistory(r.Context(), conversationID)
	if err != nil {
		writeError(w, "Could not retrieve history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversation": conv,
		"history":      history,
	})
}

// DeleteConversation removes the thread, its history, its documents and its
// vector collection.
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	chunksDeleted, err := h.Index.DeleteCollection(r.Context(), conversationID)
	if err != nil && !errors.Is(err, vectordb.ErrCollectionNotFound) {
		writeError(w, "Could not delete vector collection", http.StatusInternalServerError)
		return
	}

	docsDeleted, err := h.Documents.DeleteByConversation(r.Context(), conversationID)
	if err != nil {
		writeError(w, "Could not delete conversation documents", http.StatusInternalServerError)
		return
	}

	if err := h.Conversations.Delete(r.Context(), conversationID); err != nil {
		if errors.Is(err, conversationrepo.ErrConversationNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not delete conversation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "Conversation deleted successfully",
		"conversation_id":   conversationID,
		"chunks_deleted":    chunksDeleted,
		"documents_deleted": docsDeleted,
	})
}

// Prompt runs one full conversational turn.
func (h *ConversationHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	var req struct {
		Prompt string `json:"prompt"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		writeError(w, "prompt is required", http.StatusBadRequest)
		return
	}

	result, err := h.ChatService.Turn(r.Context(), conversationID, req.UserID, req.Prompt, nil)
	if err != nil {
		if errors.Is(err, conversationrepo.ErrConversationNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Error processing prompt: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Query runs a similarity search without a model turn.
func (h *ConversationHandler) Query(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	var req struct {
		Query    string `json:"query"`
		NResults int    `json:"n_results"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, "Query cannot be empty", http.StatusBadRequest)
		return
	}
	if req.NResults != 0 && (req.NResults < chat.MinTopK || req.NResults > chat.MaxTopK) {
		writeError(w, "n_results must be an integer between 1 and 20", http.StatusBadRequest)
		return
	}

	if _, err := h.Conversations.FindByConversationID(r.Context(), conversationID); err != nil {
		if errors.Is(err, conversationrepo.ErrConversationNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve conversation", http.StatusInternalServerError)
		return
	}

	chunks, err := h.ChatService.Retrieve(r.Context(), conversationID, query, req.NResults)
	if err != nil {
		writeError(w, "Failed to query documents", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Query executed successfully",
		"conversation_id": conversationID,
		"query":           query,
		"results": map[string]interface{}{
			"count":  len(chunks),
			"chunks": chunks,
		},
	})
}
