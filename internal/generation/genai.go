package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"personify/internal/logging"
)

// GenAIClient implements Client on top of the official google.golang.org/genai
// SDK. Selected with provider "genai"; the REST GeminiClient stays the
// default because it exposes the exact upstream status and body.
type GenAIClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGenAIClient creates an SDK-backed generation client.
func NewGenAIClient(ctx context.Context, cfg GeminiConfig) (*GenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-1.5-pro-latest"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](defaultTemperature),
		TopK:            genai.Ptr[float32](defaultTopK),
		TopP:            genai.Ptr[float32](defaultTopP),
		MaxOutputTokens: int32(maxTokens),
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}

	return &GenAIClient{
		client: client,
		model:  model,
		config: genConfig,
	}, nil
}

// Complete sends a prompt and returns the raw text response.
func (c *GenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, false)
}

// CompleteJSON sends a prompt with JSON output requested and returns the
// isolated JSON fragment of the response.
func (c *GenAIClient) CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	return ExtractJSON(text)
}

func (c *GenAIClient) generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	startTime := time.Now()
	logging.APIDebug("[GenAI] generate: model=%s prompt_len=%d json=%v", c.model, len(prompt), jsonOutput)

	cfg := *c.config
	if jsonOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			logging.APIError("[GenAI] generate: API error %d: %s", apiErr.Code, apiErr.Message)
			return "", &UpstreamError{StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		logging.APIError("[GenAI] generate: request failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		logging.APIError("[GenAI] generate: no text in response")
		return "", ErrEmptyResponse
	}

	logging.API("[GenAI] generate: completed in %v response_len=%d", time.Since(startTime), len(text))
	return text, nil
}
