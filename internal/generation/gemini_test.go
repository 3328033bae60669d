package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-1.5-pro-latest",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewGeminiClient failed: %v", err)
	}
	return client
}

func candidateResponse(text string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(body)
}

func TestNewGeminiClientMissingKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		_, err := NewGeminiClient(GeminiConfig{APIKey: key})
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("key %q: expected ErrMissingAPIKey, got %v", key, err)
		}
	}
}

func TestGeminiComplete(t *testing.T) {
	var gotRequest geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(candidateResponse("análise concluída")))
	})

	got, err := client.Complete(context.Background(), "analise o corpus")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "análise concluída" {
		t.Errorf("unexpected response: %q", got)
	}

	gc := gotRequest.GenerationConfig
	if gc.Temperature != 0.4 || gc.TopK != 32 || gc.TopP != 0.95 || gc.MaxOutputTokens != 8192 {
		t.Errorf("unexpected generation config: %+v", gc)
	}
	if gc.ResponseMimeType != "" {
		t.Errorf("text mode must not request a response MIME type, got %q", gc.ResponseMimeType)
	}
	if len(gotRequest.SafetySettings) != 4 {
		t.Errorf("expected 4 safety settings, got %d", len(gotRequest.SafetySettings))
	}
	for _, s := range gotRequest.SafetySettings {
		if s.Threshold != "BLOCK_NONE" {
			t.Errorf("category %s: expected BLOCK_NONE, got %s", s.Category, s.Threshold)
		}
	}
}

func TestGeminiCompleteJSON(t *testing.T) {
	var gotRequest geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Write([]byte(candidateResponse("```json\n{\"resumo\": \"ok\"}\n```")))
	})

	raw, err := client.CompleteJSON(context.Background(), "responda em JSON")
	if err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if string(raw) != `{"resumo": "ok"}` {
		t.Errorf("unexpected fragment: %s", raw)
	}
	if gotRequest.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("JSON mode must request application/json, got %q", gotRequest.GenerationConfig.ResponseMimeType)
	}
}

func TestGeminiUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded"}}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", upstream.StatusCode)
	}
	if upstream.Body == "" {
		t.Error("expected upstream body to be preserved")
	}
}

func TestGeminiInlineError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": 400, "message": "invalid argument"}}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != 400 {
		t.Errorf("expected code 400, got %d", upstream.StatusCode)
	}
}

func TestGeminiEmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates": []}`},
		{"no parts", `{"candidates": [{"content": {"parts": []}}]}`},
		{"blank text", candidateResponse("   \n  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := client.Complete(context.Background(), "prompt")
			if !errors.Is(err, ErrEmptyResponse) {
				t.Errorf("expected ErrEmptyResponse, got %v", err)
			}
		})
	}
}

func TestGeminiMultiPartConcatenation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "primeira "}, {"text": "segunda"}]}}]}`))
	})

	got, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "primeira segunda" {
		t.Errorf("parts not concatenated: %q", got)
	}
}

func TestGeminiContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.Write([]byte(candidateResponse("tarde demais")))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "prompt")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
