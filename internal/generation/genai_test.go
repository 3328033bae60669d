package generation

import (
	"context"
	"strings"
	"testing"
)

func TestGenAIClientSatisfiesClient(t *testing.T) {
	var _ Client = (*GenAIClient)(nil)
}

func TestNewGenAIClientRequiresAPIKey(t *testing.T) {
	_, err := NewGenAIClient(context.Background(), GeminiConfig{APIKey: "  "})
	if err != ErrMissingAPIKey {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestNewGenAIClientDefaults(t *testing.T) {
	client, err := NewGenAIClient(context.Background(), GeminiConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGenAIClient: %v", err)
	}
	if client.model == "" || !strings.HasPrefix(client.model, "gemini") {
		t.Errorf("default model = %q, want a gemini model", client.model)
	}
	if client.config.MaxOutputTokens != defaultMaxOutputTokens {
		t.Errorf("max output tokens = %d, want %d", client.config.MaxOutputTokens, defaultMaxOutputTokens)
	}
	if len(client.config.SafetySettings) != 4 {
		t.Errorf("safety settings = %d, want 4", len(client.config.SafetySettings))
	}
}
