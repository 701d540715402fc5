// File: internal/handlers/document_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	conversationrepo "github.com/cogniscript/server/internal/repository/conversation"
	documentrepo "github.com/cogniscript/server/internal/repository/document"
	documentsvc "github.com/cogniscript/server/internal/services/document"
	"github.com/cogniscript/server/internal/services/vectordb"
)

const maxUploadBytes = 32 << 20 // 32 MB

var allowedExtensions = map[string]bool{".pdf": true}

type DocumentHandler struct {
	Pipeline      *documentsvc.Pipeline
	Documents     documentrepo.DocumentRepository
	Conversations conversationrepo.ConversationRepository
	Index         vectordb.Index
	UploadDir     string
}

func NewDocumentHandler(
	pipeline *documentsvc.Pipeline,
	documents documentrepo.DocumentRepository,
	conversations conversationrepo.ConversationRepository,
	index vectordb.Index,
	uploadDir string,
) *DocumentHandler {
	return &DocumentHandler{
		Pipeline:      pipeline,
		Documents:     documents,
		Conversations: conversations,
		Index:         index,
		UploadDir:     uploadDir,
	}
}

// Upload accepts a multipart file, spools it to a temp file and runs it
// through the ingestion pipeline.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." {
		writeError(w, "No file selected", http.StatusBadRequest)
		return
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		writeError(w, "File type not allowed", http.StatusBadRequest)
		return
	}

	tempPath, err := h.spoolUpload(file, filename)
	if err != nil {
		writeError(w, "Could not store upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tempPath)

	doc, err := h.Pipeline.Ingest(r.Context(), conversationID, tempPath, filename, conv.UserID)
	if err != nil {
		var procErr *documentsvc.ProcessingError
		if errors.As(err, &procErr) {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   "Failed to upload document",
				"stage":   procErr.Stage,
				"details": procErr.Message,
			})
			return
		}
		writeError(w, "Failed to upload document", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":         "Document uploaded and processed successfully",
		"conversation_id": conversationID,
		"document": map[string]interface{}{
			"doc_id":          doc.DocID,
			"filename":        doc.Filename,
			"chunks_count":    len(doc.ChunkIDs),
			"page_count":      doc.PageCount,
			"collection_name": doc.Collection,
		},
	})
}

// DocumentsInfo reports the conversation's documents from both stores: the
// descriptors and the live per-document chunk stats from the index.
func (h *DocumentHandler) DocumentsInfo(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	if _, err := h.Conversations.FindByConversationID(r.Context(), conversationID); err != nil {
		if errors.Is(err, conversationrepo.ErrConversationNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve conversation", http.StatusInternalServerError)
		return
	}

	docs, err := h.Documents.FindByConversation(r.Context(), conversationID)
	if err != nil {
		writeError(w, "Failed to get document information", http.StatusInternalServerError)
		return
	}

	var totalChunks uint64
	var perDocument map[string]*vectordb.DocumentStats
	info, err := h.Index.DescribeCollection(r.Context(), conversationID)
	switch {
	case err == nil:
		totalChunks = info.ChunkCount
		perDocument = info.Documents
	case errors.Is(err, vectordb.ErrCollectionNotFound):
		// no uploads yet
	default:
		writeError(w, "Failed to get document information", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Document information retrieved successfully",
		"conversation_id": conversationID,
		"documents_info": map[string]interface{}{
			"total_documents": len(docs),
			"total_chunks":    totalChunks,
			"documents":       docs,
			"index_documents": perDocument,
			"collection_name": vectordb.CollectionName(conversationID),
		},
	})
}

// ListIndexes enumerates every conversation vector collection.
func (h *DocumentHandler) ListIndexes(w http.ResponseWriter, r *http.Request) {
	collections, err := h.Index.ListCollections(r.Context())
	if err != nil {
		writeError(w, "Failed to list vector databases", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Vector databases retrieved successfully",
		"count":       len(collections),
		"collections": collections,
	})
}

// Health reports reachability of the vector backend.
func (h *DocumentHandler) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Index.ListCollections(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

func (h *DocumentHandler) spoolUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	temp, err := os.CreateTemp(h.UploadDir, "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer temp.Close()

	if _, err := io.Copy(temp, src); err != nil {
		os.Remove(temp.Name())
		return "", err
	}
	return temp.Name(), nil
}
