package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newChatServer serves an OpenAI-style chat completions endpoint that always
// answers with content.
func newChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 10, "total_tokens": 20},
		})
	}))
}

func TestOpenAICompleter(t *testing.T) {
	srv := newChatServer(t, cakeReply)
	defer srv.Close()

	completer, err := NewOpenAICompleter(srv.URL, "test-key", "test-model")
	if err != nil {
		t.Fatalf("NewOpenAICompleter failed: %v", err)
	}

	result, err := New(completer).Suggest(context.Background(), Request{Description: "bolo"})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if result.SuggestedRecipes[0].RecipeName != "Bolo de Cenoura" {
		t.Errorf("unexpected result: %+v", result)
	}
}
