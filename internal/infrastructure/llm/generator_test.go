package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGenerator_FallsBackWithoutAPIKey(t *testing.T) {
	gen := NewGenerator(Config{})
	if _, ok := gen.(TemplateGenerator); !ok {
		t.Fatalf("expected TemplateGenerator without an API key, got %T", gen)
	}
}

func TestTemplateGenerator_Deterministic(t *testing.T) {
	gen := TemplateGenerator{}

	first, err := gen.Generate(context.Background(), "engineer", "engineering")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(first) == 0 {
		t.Fatalf("expected items")
	}

	second, _ := gen.Generate(context.Background(), "engineer", "engineering")
	if len(first) != len(second) {
		t.Fatalf("identical inputs must yield identical items")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("item %d drifted: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestClient_ParsesChatResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) == 0 || !strings.Contains(req.Messages[len(req.Messages)-1].Content, "designer") {
			t.Errorf("prompt should mention the role, got %v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[{\"title\":\"Meet the design team\",\"category\":\"orientation\"}]"}}]}`))
	}))
	defer srv.Close()

	gen := NewGenerator(Config{APIURL: srv.URL, APIKey: "test-key", Model: "test-model"})

	items, err := gen.Generate(context.Background(), "designer", "design")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Meet the design team" {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestClient_UpstreamErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	gen := NewGenerator(Config{APIURL: srv.URL, APIKey: "test-key"})
	if _, err := gen.Generate(context.Background(), "engineer", "engineering"); err == nil {
		t.Fatalf("upstream failure must propagate as an error")
	}
}
