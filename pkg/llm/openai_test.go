package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-3.5-turbo",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "\"Brewing ideas and espresso\""}
  }]
}`

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	b := NewOpenAIBackend(OpenAIConfig{
		APIKey:   "sk-test",
		BaseURL:  srv.URL + "/v1",
		Denylist: []string{"shit", "fuck", "damn", "hell", "bitch", "ass"},
	})
	text, err := b.Generate(context.Background(), "coffee")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "\"Brewing ideas and espresso\"" {
		t.Fatalf("text = %q", text)
	}

	if body["model"] != "gpt-3.5-turbo" {
		t.Fatalf("model = %v", body["model"])
	}
	if body["max_tokens"] != float64(50) || body["temperature"] != 0.8 {
		t.Fatalf("unexpected sampling params: %v", body)
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", body["messages"])
	}
	user, _ := msgs[1].(map[string]any)
	prompt, _ := user["content"].(string)
	if !strings.Contains(prompt, "User wants a coffee status message") {
		t.Fatalf("prompt missing context: %q", prompt)
	}
	if !strings.Contains(prompt, "Avoid: shit, fuck, damn, hell, bitch") || strings.Contains(prompt, "bitch, ass") {
		t.Fatalf("prompt should name exactly five denylist terms: %q", prompt)
	}
}

func TestOpenAIGenerateMakesSingleAttempt(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down"}}`))
	}))
	defer srv.Close()

	b := NewOpenAIBackend(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := b.Generate(context.Background(), "busy")
	if !HasCode(err, CodeRequestFailed) {
		t.Fatalf("expected BACKEND_REQUEST_FAILED, got %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("expected 1 request, got %d", n)
	}
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIBackend(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}).Generate(context.Background(), "busy")
	if !HasCode(err, CodeEmptyResponse) {
		t.Fatalf("expected BACKEND_EMPTY_RESPONSE, got %v", err)
	}
}
