package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Generation.Provider)
	}
	if cfg.Analysis.MinResponses != 108 {
		t.Errorf("min_responses = %d, want 108", cfg.Analysis.MinResponses)
	}
	if cfg.Storage.Bucket != "dna-protocol-files" {
		t.Errorf("bucket = %q, want dna-protocol-files", cfg.Storage.Bucket)
	}
	if cfg.Transcription.Model != "nova-2" {
		t.Errorf("transcription model = %q, want nova-2", cfg.Transcription.Model)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
generation:
  model: gemini-2.0-flash
  timeout: 30s
analysis:
  min_responses: 6
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q, want gemini-2.0-flash", cfg.Generation.Model)
	}
	if got := cfg.GenerationTimeout(); got != 30*time.Second {
		t.Errorf("GenerationTimeout() = %v, want 30s", got)
	}
	if cfg.Analysis.MinResponses != 6 {
		t.Errorf("min_responses = %d, want 6", cfg.Analysis.MinResponses)
	}
	// Untouched sections keep their defaults.
	if cfg.Analysis.ProtocolSize != 108 {
		t.Errorf("protocol_size = %d, want 108", cfg.Analysis.ProtocolSize)
	}
	if cfg.Generation.MaxConcurrent != 4 {
		t.Errorf("max_concurrent = %d, want 4", cfg.Generation.MaxConcurrent)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("generation: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesSetCredentials(t *testing.T) {
	t.Setenv("PERSONIFY_GEMINI_API_KEY", "gem-key")
	t.Setenv("PERSONIFY_SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("PERSONIFY_SUPABASE_KEY", "supa-key")
	t.Setenv("PERSONIFY_DEEPGRAM_API_KEY", "dg-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.APIKey != "gem-key" {
		t.Errorf("generation api key = %q", cfg.Generation.APIKey)
	}
	if cfg.Storage.BaseURL != "https://proj.supabase.co" {
		t.Errorf("storage base url = %q", cfg.Storage.BaseURL)
	}
	if cfg.Storage.APIKey != "supa-key" {
		t.Errorf("storage api key = %q", cfg.Storage.APIKey)
	}
	if cfg.Transcription.APIKey != "dg-key" {
		t.Errorf("transcription api key = %q", cfg.Transcription.APIKey)
	}
}

func TestTimeoutFallbacks(t *testing.T) {
	g := GenerationConfig{}
	if got := g.TimeoutDuration(); got != 90*time.Second {
		t.Errorf("empty timeout = %v, want 90s", got)
	}
	g.Timeout = "garbage"
	if got := g.TimeoutDuration(); got != 90*time.Second {
		t.Errorf("invalid timeout = %v, want 90s", got)
	}
	g.Timeout = "-5s"
	if got := g.TimeoutDuration(); got != 90*time.Second {
		t.Errorf("negative timeout = %v, want 90s", got)
	}
}

func TestStateDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PERSONIFY_STATE_DIR", dir)
	if got := StateDir(); got != dir {
		t.Errorf("StateDir() = %q, want %q", got, dir)
	}
}
