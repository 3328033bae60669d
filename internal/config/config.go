// Package config holds all personify configuration.
// Config is loaded from a YAML file with environment-variable overrides for
// credentials, then passed explicitly into the components that need it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all personify configuration.
type Config struct {
	// Generation service (the LLM performing all analysis)
	Generation GenerationConfig `yaml:"generation"`

	// Analysis pipeline settings
	Analysis AnalysisConfig `yaml:"analysis"`

	// Object storage for artifacts (audio, transcripts, reports, datasets)
	Storage StorageConfig `yaml:"storage"`

	// Audio transcription service
	Transcription TranscriptionConfig `yaml:"transcription"`

	// Local session store
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GenerationConfig configures the generation client.
type GenerationConfig struct {
	Provider        string `yaml:"provider"` // gemini (REST), genai (SDK)
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	BaseURL         string `yaml:"base_url"`
	Timeout         string `yaml:"timeout"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	MaxConcurrent   int    `yaml:"max_concurrent"` // concurrent upstream calls cap
}

// AnalysisConfig configures the manual assembler.
type AnalysisConfig struct {
	// Minimum qualifying responses before a full analysis is attempted.
	MinResponses int `yaml:"min_responses"`

	// Nominal size of the full questionnaire, used by the reliability
	// heuristic to grade coverage.
	ProtocolSize int `yaml:"protocol_size"`
}

// StorageConfig configures the Supabase Storage collaborator.
type StorageConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Bucket  string `yaml:"bucket"`
	Timeout string `yaml:"timeout"`
}

// TranscriptionConfig configures the Deepgram collaborator.
type TranscriptionConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	Timeout  string `yaml:"timeout"`
}

// StoreConfig configures the local SQLite session store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures category file logging.
type LoggingConfig struct {
	Debug      bool            `yaml:"debug"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Provider:        "gemini",
			Model:           "gemini-1.5-pro-latest",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Timeout:         "90s",
			MaxOutputTokens: 8192,
			MaxConcurrent:   4,
		},
		Analysis: AnalysisConfig{
			MinResponses: 108,
			ProtocolSize: 108,
		},
		Storage: StorageConfig{
			Bucket:  "dna-protocol-files",
			Timeout: "60s",
		},
		Transcription: TranscriptionConfig{
			BaseURL:  "https://api.deepgram.com",
			Model:    "nova-2",
			Language: "pt",
			Timeout:  "120s",
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(stateDir(), "personify.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path, merging over defaults and applying
// environment overrides. A missing file is not an error; defaults plus env
// overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets credentials come from the environment so config
// files never need to contain secrets.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PERSONIFY_GEMINI_API_KEY"); v != "" {
		c.Generation.APIKey = v
	}
	if v := os.Getenv("PERSONIFY_SUPABASE_URL"); v != "" {
		c.Storage.BaseURL = v
	}
	if v := os.Getenv("PERSONIFY_SUPABASE_KEY"); v != "" {
		c.Storage.APIKey = v
	}
	if v := os.Getenv("PERSONIFY_DEEPGRAM_API_KEY"); v != "" {
		c.Transcription.APIKey = v
	}
}

// GenerationTimeout parses the generation timeout, falling back to 90s.
func (c *Config) GenerationTimeout() time.Duration {
	return c.Generation.TimeoutDuration()
}

// TimeoutDuration parses the generation timeout, falling back to 90s.
func (g GenerationConfig) TimeoutDuration() time.Duration {
	return parseTimeout(g.Timeout, 90*time.Second)
}

// StorageTimeout parses the storage timeout, falling back to 60s.
func (c *Config) StorageTimeout() time.Duration {
	return parseTimeout(c.Storage.Timeout, 60*time.Second)
}

// TranscriptionTimeout parses the transcription timeout, falling back to 120s.
func (c *Config) TranscriptionTimeout() time.Duration {
	return parseTimeout(c.Transcription.Timeout, 120*time.Second)
}

func parseTimeout(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// StateDir returns the directory for personify state (database, logs).
func StateDir() string {
	return stateDir()
}

func stateDir() string {
	if v := os.Getenv("PERSONIFY_STATE_DIR"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".personify"
	}
	return filepath.Join(home, ".personify")
}
