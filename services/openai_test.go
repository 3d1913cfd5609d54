package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenAIService_CompleteChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[\"Inception\"]"}}]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService(server.URL, "gpt-4o-mini", "test-key")
	content, err := svc.CompleteChat(context.Background(), "system prompt", "user prompt")
	assert.NoError(t, err)
	assert.Equal(t, `["Inception"]`, content)
}

func TestOpenAIService_CompleteChat_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	svc := NewOpenAIService(server.URL, "gpt-4o-mini", "test-key")
	_, err := svc.CompleteChat(context.Background(), "system", "user")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIService_CompleteChat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService(server.URL, "gpt-4o-mini", "test-key")
	_, err := svc.CompleteChat(context.Background(), "system", "user")
	assert.Error(t, err)
}

func TestOpenAIService_CompleteChat_Misconfigured(t *testing.T) {
	svc := NewOpenAIService("", "gpt-4o-mini", "")
	_, err := svc.CompleteChat(context.Background(), "system", "user")
	assert.Error(t, err)
}
