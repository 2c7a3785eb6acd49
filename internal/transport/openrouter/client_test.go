package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/domain"
)

// chatCompletionResponse mirrors the OpenAI-compatible chat completion response.
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func newTestClient(baseURL string) *Client {
	return New(&Config{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "openai/gpt-3.5-turbo",
		MaxTokens:   2000,
		Temperature: 0.1,
		Timeout:     5 * time.Second,
		Logger:      zap.NewNop(),
	})
}

func TestComplete_Success(t *testing.T) {
	var gotReq struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := chatCompletionResponse{ID: "cmpl-1", Object: "chat.completion", Model: "openai/gpt-3.5-turbo"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{Index: 0, FinishReason: "stop"})
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = `{"keyword_score": 80}`
		resp.Usage.PromptTokens = 100
		resp.Usage.CompletionTokens = 50
		resp.Usage.TotalTokens = 150

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	raw, err := c.Complete(context.Background(), "analyze this listing")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if raw != `{"keyword_score": 80}` {
		t.Errorf("raw = %q", raw)
	}

	if gotReq.Model != "openai/gpt-3.5-turbo" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.MaxTokens != 2000 {
		t.Errorf("max_tokens = %d", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0.1 {
		t.Errorf("temperature = %g", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Messages[0].Content != "analyze this listing" {
		t.Errorf("prompt = %q", gotReq.Messages[0].Content)
	}
}

func TestComplete_HTTPError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream provider unavailable", "type": "server_error"},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	var ce *domain.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *domain.CompletionError, got %T", err)
	}
	if ce.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", ce.StatusCode)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error message %q must contain the status code", err.Error())
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want exactly 1 (no retries)", calls)
	}
}

func TestComplete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	c := newTestClient(server.URL)

	_, err := c.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for refused connection")
	}

	var ce *domain.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *domain.CompletionError, got %T", err)
	}
	if ce.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport errors", ce.StatusCode)
	}
	if !strings.HasPrefix(err.Error(), "analysis failed: ") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := chatCompletionResponse{ID: "cmpl-1", Object: "chat.completion"}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}

	var ce *domain.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *domain.CompletionError, got %T", err)
	}
}
