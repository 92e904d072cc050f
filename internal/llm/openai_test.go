package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type       string `json:"type"`
		JSONSchema *struct {
			Name   string `json:"name"`
			Strict bool   `json:"strict"`
		} `json:"json_schema"`
	} `json:"response_format"`
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestOpenAIProvider_JSONArray(t *testing.T) {
	var got chatRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`[{"questionText":"What is 2 + 3?","answer":5}]`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write maths problems.",
		Prompt:    "One problem please.",
		Format:    FormatJSONArray,
		Schema:    &Schema{Name: "batch", Definition: map[string]any{"type": "array"}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Model != "gpt-4o-mini" {
		t.Errorf("expected alias to resolve, sent %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "One problem please." {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
	if got.ResponseFormat != nil {
		t.Errorf("array requests must not set response_format, got %+v", got.ResponseFormat)
	}
	if resp.Usage.TotalTokens != 65 || resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("unexpected response metadata: %+v", resp)
	}
}

func TestOpenAIProvider_SchemaFormat(t *testing.T) {
	var got chatRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"ok": true}`, "stop"))
	})

	schema := &Schema{
		Name: "ack-openai",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"ok": map[string]any{"type": "boolean"}},
			"required":   []any{"ok"},
		},
	}
	if _, err := p.Generate(context.Background(), Request{Prompt: "ack", Format: FormatSchema, Schema: schema, MaxTokens: 32}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected json_schema response format, got %+v", got.ResponseFormat)
	}
	if got.ResponseFormat.JSONSchema.Name != "ack-openai" || !got.ResponseFormat.JSONSchema.Strict {
		t.Errorf("unexpected schema envelope: %+v", got.ResponseFormat.JSONSchema)
	}
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"ok": "yes"}`, "stop"))
	})

	schema := &Schema{
		Name: "ack-openai-mismatch",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"ok": map[string]any{"type": "boolean"}},
		},
	}
	_, err := p.Generate(context.Background(), Request{Prompt: "ack", Format: FormatSchema, Schema: schema})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if string(inv.Content) != `{"ok": "yes"}` {
		t.Errorf("expected rejected document to be kept, got %s", inv.Content)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`[{"questionText":`, "length"))
	})

	_, err := p.Generate(context.Background(), Request{Prompt: "x", Format: FormatJSONArray})
	var trunc *ErrMaxTokensExceeded
	if !errors.As(err, &trunc) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "object": "chat.completion", "choices": []any{}})
	})

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		check   func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, "slow down", func(err error) bool {
			return errors.As(err, new(*ErrRateLimit))
		}},
		{"auth", http.StatusUnauthorized, "Incorrect API key provided", func(err error) bool {
			return errors.As(err, new(*ErrAuth))
		}},
		{"bad request naming the key", http.StatusBadRequest, "API key not valid", func(err error) bool {
			return errors.As(err, new(*ErrAuth))
		}},
		{"server error", http.StatusInternalServerError, "oops", func(err error) bool {
			return errors.As(err, new(*ErrProviderUnavailable))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": tt.message, "type": "error"},
				})
			})

			_, err := p.Generate(context.Background(), Request{Prompt: "x"})
			if !tt.check(err) {
				t.Fatalf("unexpected error type: %T %v", err, err)
			}
		})
	}
}

func TestOpenAIProvider_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	_, err = p.Generate(context.Background(), Request{Prompt: "x"})
	if !errors.As(err, new(*ErrProviderUnavailable)) {
		t.Fatalf("expected ErrProviderUnavailable, got %T %v", err, err)
	}
}
