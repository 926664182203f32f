package trends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionServer(t *testing.T, content string, check func(r chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected authorization header: %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if check != nil {
			check(req)
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_FetchTrending(t *testing.T) {
	payload := `[{"title": "Story A", "summary": "Summary A", "tweet_ids": ["183456709182736458"]},
		{"title": "Story B", "summary": "Summary B", "tweet_ids": ["185093417762053421"]}]`

	server := completionServer(t, payload, func(req chatRequest) {
		if req.SearchParameters == nil {
			t.Fatal("Expected search parameters on trending fetch")
		}
		if req.SearchParameters.Mode != "on" {
			t.Errorf("Expected search mode on, got %q", req.SearchParameters.Mode)
		}
		if len(req.SearchParameters.Sources) != 1 || req.SearchParameters.Sources[0].Type != "x" {
			t.Errorf("Unexpected search sources: %+v", req.SearchParameters.Sources)
		}
		if req.SearchParameters.FromDate == "" {
			t.Error("Expected from_date to be set")
		}
	})
	defer server.Close()

	client := NewClient(server.URL, "test-key", "grok-3", "test-agent")
	candidates, err := client.FetchTrending(context.Background(), CategoryTrending,
		CategoryTrending.Keywords(), 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Title != "Story A" {
		t.Errorf("Unexpected first candidate: %+v", candidates[0])
	}
}

func TestClient_FetchTrending_FencedResponse(t *testing.T) {
	payload := "The trending stories are:\n```json\n" +
		`[{"title": "Fenced", "summary": "S", "tweet_ids": ["183456709182736458"]}]` +
		"\n```"

	server := completionServer(t, payload, nil)
	defer server.Close()

	client := NewClient(server.URL, "test-key", "grok-3", "test-agent")
	candidates, err := client.FetchTrending(context.Background(), CategoryTrending, nil, 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(candidates) != 1 || candidates[0].Title != "Fenced" {
		t.Errorf("Expected fenced array parsed, got %+v", candidates)
	}
}

func TestClient_FetchTrending_UnparsableResponse(t *testing.T) {
	server := completionServer(t, "I could not find any trending stories today.", nil)
	defer server.Close()

	client := NewClient(server.URL, "test-key", "grok-3", "test-agent")
	if _, err := client.FetchTrending(context.Background(), CategoryTrending, nil, 10); err == nil {
		t.Error("Expected error for non-JSON response")
	}
}

func TestClient_Complete(t *testing.T) {
	server := completionServer(t, "completion text", func(req chatRequest) {
		if req.SearchParameters != nil {
			t.Error("Expected no search parameters on plain completion")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}
	})
	defer server.Close()

	client := NewClient(server.URL, "test-key", "grok-3", "test-agent")
	text, err := client.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "completion text" {
		t.Errorf("Unexpected completion: %q", text)
	}
}

func TestClient_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "grok-3", "test-agent")
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("Expected error on non-200 response")
	}
}

func TestClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": {"type": "invalid_request", "message": "bad model"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "grok-3", "test-agent")
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("Expected error when the endpoint reports one")
	}
}

func TestExtractJSONArray(t *testing.T) {
	fenced := "prose\n```json\n[1, 2]\n```\nmore prose"
	if got := extractJSONArray(fenced); got != "[1, 2]" {
		t.Errorf("Expected fenced array extracted, got %q", got)
	}

	bare := "the answer is [1, 2] as shown"
	if got := extractJSONArray(bare); got != "[1, 2]" {
		t.Errorf("Expected bare array extracted, got %q", got)
	}

	if got := extractJSONArray("no json here"); got != "no json here" {
		t.Errorf("Expected passthrough, got %q", got)
	}
}

func TestExtractJSONObject(t *testing.T) {
	fenced := "```\n{\"a\": 1}\n```"
	if got := extractJSONObject(fenced); got != `{"a": 1}` {
		t.Errorf("Expected fenced object extracted, got %q", got)
	}

	bare := `leading text {"a": 1} trailing`
	if got := extractJSONObject(bare); got != `{"a": 1}` {
		t.Errorf("Expected bare object extracted, got %q", got)
	}
}
