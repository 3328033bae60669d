package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"personify/internal/logging"
)

// GeminiConfig holds configuration for the REST Gemini client.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:          apiKey,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-1.5-pro-latest",
		Timeout:         defaultTimeout,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
}

// GeminiClient implements Client against the generateContent REST API.
// The credential is fixed at construction and the client is safe for
// concurrent use.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewGeminiClient creates a REST Gemini client. Returns ErrMissingAPIKey when
// no credential is configured; this is checked once here, never per call.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-1.5-pro-latest"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	return &GeminiClient{
		apiKey:    cfg.APIKey,
		baseURL:   base,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Wire types for the generateContent endpoint.

type geminiRequest struct {
	Contents         []geminiContent       `json:"contents"`
	GenerationConfig geminiGenConfig       `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting `json:"safetySettings"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// The analysis corpus is self-reflective personal speech; blocking categories
// would truncate legitimate answers about fears, conflicts and beliefs.
var geminiSafetyOff = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
}

// Complete sends a prompt and returns the raw text response.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, false)
}

// CompleteJSON sends a prompt with JSON output requested and returns the
// isolated JSON fragment of the response.
func (c *GeminiClient) CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	return ExtractJSON(text)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	// Auto-apply timeout if the context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.APIDebug("[Gemini] generate: model=%s prompt_len=%d json=%v", c.model, len(prompt), jsonOutput)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     defaultTemperature,
			TopK:            defaultTopK,
			TopP:            defaultTopP,
			MaxOutputTokens: c.maxTokens,
		},
		SafetySettings: geminiSafetyOff,
	}
	if jsonOutput {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("[Gemini] generate: request failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.APIError("[Gemini] generate: status %d: %s", resp.StatusCode, string(body))
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", &UpstreamError{StatusCode: geminiResp.Error.Code, Body: geminiResp.Error.Message}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		logging.APIError("[Gemini] generate: no candidates in response")
		return "", ErrEmptyResponse
	}

	var result strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}

	response := strings.TrimSpace(result.String())
	if response == "" {
		return "", ErrEmptyResponse
	}

	logging.API("[Gemini] generate: completed in %v response_len=%d", time.Since(startTime), len(response))
	return response, nil
}
