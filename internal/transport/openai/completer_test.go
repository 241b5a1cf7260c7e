package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/domain/llm"
	"github.com/kailas-cloud/docquery/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterDomainMetrics()
	os.Exit(m.Run())
}

// chatRequest mirrors the fields of a chat completion request the tests inspect.
type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo-16k",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
	}
}

func newTestCompleter(url string) *Completer {
	return NewCompleter(&Config{APIKey: "sk-test-key", BaseURL: url, Logger: zap.NewNop()})
}

var testPrompt = llm.Prompt{
	System:    "You summarize documents.",
	User:      "Please summarize the following document:\n\nTitle: X\n\nSummary:",
	WireModel: "gpt-3.5-turbo-16k",
	MaxTokens: 500,
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-3.5-turbo-16k" || req.MaxTokens != 500 {
			t.Errorf("unexpected model/max_tokens: %s/%d", req.Model, req.MaxTokens)
		}
		if req.Temperature > 1e-6 {
			t.Errorf("expected temperature ~0, got %g", req.Temperature)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Fatalf("unexpected messages: %+v", req.Messages)
		}
		if req.Messages[1].Content != testPrompt.User {
			t.Errorf("unexpected user content: %q", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("  A concise summary.\n"))
	}))
	defer server.Close()

	text, err := newTestCompleter(server.URL).Complete(context.Background(), testPrompt)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "A concise summary." {
		t.Errorf("text = %q", text)
	}
}

func TestComplete_NoSystemMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("expected a single user message, got %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer server.Close()

	p := testPrompt
	p.System = ""
	if _, err := newTestCompleter(server.URL).Complete(context.Background(), p); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := chatResponse("")
		resp["choices"] = []map[string]any{}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), testPrompt)
	if !errors.Is(err, domain.ErrCompletion) {
		t.Fatalf("expected ErrCompletion, got %v", err)
	}
}

func TestComplete_APIErrorNoRetryNoKeyLeak(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided: sk-test-key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), testPrompt)
	var ce *domain.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompletionError, got %v", err)
	}
	if ce.Status != http.StatusUnauthorized || ce.Provider != "openai" {
		t.Errorf("unexpected error detail: %+v", ce)
	}
	if strings.Contains(ce.Error(), "sk-test-key") {
		t.Errorf("error leaks the API key: %s", ce.Error())
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", hits.Load())
	}
}

func TestComplete_ServerErrorTruncatesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), testPrompt)
	var ce *domain.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompletionError, got %v", err)
	}
	if ce.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", ce.Status)
	}
	if len(ce.Body) > maxErrorBody+3 {
		t.Errorf("body not truncated: %d bytes", len(ce.Body))
	}
}

func TestSanitize(t *testing.T) {
	c := NewCompleter(&Config{APIKey: "secret"})
	if got := c.sanitize("bad key secret"); got != "bad key [redacted]" {
		t.Errorf("sanitize = %q", got)
	}
}

func TestComplete_FailureLoggedWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided: sk-test-key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	core, logs := observer.New(zap.DebugLevel)
	c := NewCompleter(&Config{APIKey: "sk-test-key", BaseURL: server.URL, Logger: zap.New(core)})

	if _, err := c.Complete(context.Background(), testPrompt); err == nil {
		t.Fatal("expected error")
	}

	entries := logs.FilterMessage("OpenAI completion failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one failure log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["model"] != "gpt-3.5-turbo-16k" {
		t.Errorf("model field = %v", fields["model"])
	}
	if msg, _ := fields["error"].(string); strings.Contains(msg, "sk-test-key") || msg == "" {
		t.Errorf("unexpected error field %q", msg)
	}
}

func TestComplete_EmptyChoicesLogged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(""))
	}))
	defer server.Close()

	core, logs := observer.New(zap.WarnLevel)
	c := NewCompleter(&Config{APIKey: "sk-test-key", BaseURL: server.URL, Logger: zap.New(core)})

	if _, err := c.Complete(context.Background(), testPrompt); err == nil {
		t.Fatal("expected error")
	}
	if n := logs.FilterMessage("OpenAI returned an empty completion").Len(); n != 1 {
		t.Errorf("expected one empty-completion log, got %d", n)
	}
}
