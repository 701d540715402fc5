// File: internal/services/ai/openai_provider_test.go
package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniscript/server/internal/services"
)

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

func testConfig(baseURL string) *Config {
	return &Config{
		Provider:         ProviderOpenAI,
		EmbeddingKey:     "test-key",
		EmbeddingBaseURL: baseURL,
		EmbeddingModel:   "test-embedding-model",
		LLMKey:           "test-key",
		LLMBaseURL:       baseURL,
		LLMModel:         "test-llm-model",
		Timeout:          10 * time.Second,
		MaxRetries:       1,
		RetryDelay:       time.Millisecond,
	}
}

func embeddingData(index int, vector []float32) map[string]interface{} {
	return map[string]interface{}{
		"object":    "embedding",
		"index":     index,
		"embedding": vector,
	}
}

func TestCreateEmbeddingBatchOrdersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/embeddings"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 3)

		// entries deliberately out of order; index must win over wire order
		data := []map[string]interface{}{
			embeddingData(2, []float32{2}),
			embeddingData(0, []float32{0}),
			embeddingData(1, []float32{1}),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))
	defer server.Close()

	p := NewOpenAIProvider(testConfig(server.URL+"/v1"), &services.NoOpLogger{})

	vectors, err := p.CreateEmbeddingBatch(t.Context(), []string{"a", "b", "c"})
	require.NoError(t, err)

	require.Len(t, vectors, 3)
	for i, vec := range vectors {
		require.Len(t, vec, 1)
		assert.Equal(t, float32(i), vec[0])
	}
}

func TestCreateEmbeddingBatchFallsBackToSingleCalls(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// the batch call fails, per-text calls succeed
		if len(req.Input) > 1 {
			http.Error(w, `{"error": {"message": "batch too large"}}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   []map[string]interface{}{embeddingData(0, []float32{float32(len(req.Input[0]))})},
			"model":  req.Model,
		})
	}))
	defer server.Close()

	p := NewOpenAIProvider(testConfig(server.URL+"/v1"), &services.NoOpLogger{})

	vectors, err := p.CreateEmbeddingBatch(t.Context(), []string{"x", "yy", "zzz"})
	require.NoError(t, err)

	require.Len(t, vectors, 3)
	assert.Equal(t, float32(1), vectors[0][0])
	assert.Equal(t, float32(2), vectors[1][0])
	assert.Equal(t, float32(3), vectors[2][0])
	// one failed batch call plus three singles
	assert.Equal(t, int32(4), atomic.LoadInt32(&requests))
}

func TestGetCompletionSendsHistoryThenPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		require.Len(t, req.Messages, 3)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "earlier question", req.Messages[1].Content)
		assert.Equal(t, "user", req.Messages[2].Role)
		assert.Equal(t, "current question", req.Messages[2].Content)

		fmt.Fprint(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "the answer"}, "finish_reason": "stop"}]
		}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(testConfig(server.URL+"/v1"), &services.NoOpLogger{})

	reply, err := p.GetCompletion(t.Context(), "current question", []Message{
		{Role: "system", Content: "frame"},
		{Role: "user", Content: "earlier question"},
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)
}
