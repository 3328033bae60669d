// Package transcription turns recorded answers into text via the Deepgram
// speech API and extracts simple keywords from the result.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"personify/internal/config"
	"personify/internal/logging"
)

// ErrMissingAPIKey is returned at client construction when no Deepgram
// credential is configured.
var ErrMissingAPIKey = errors.New("transcription API key not configured")

// APIError reports a non-success status from the transcription service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("transcription request failed with status %d: %s", e.StatusCode, e.Body)
}

// Result is one transcribed recording.
type Result struct {
	Transcript string
	Confidence float64
	Duration   float64
	Keywords   []string
}

// Client calls the Deepgram pre-recorded listen endpoint. Safe for
// concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	language   string
	httpClient *http.Client
}

// New builds a transcription client from configuration.
func New(cfg config.TranscriptionConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.deepgram.com"
	}
	model := cfg.Model
	if model == "" {
		model = "nova-2"
	}
	language := cfg.Language
	if language == "" {
		language = "pt"
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    base,
		model:      model,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Wire shape of the listen response, reduced to the fields used.
type listenResponse struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends one audio recording and returns its transcript with
// confidence, duration and extracted keywords. An empty transcript is not an
// error; the caller decides whether a silent recording matters.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (*Result, error) {
	startTime := time.Now()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", "recording.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/listen?model=%s&smart_format=true&punctuate=true&diarize=false&language=%s",
		c.baseURL, c.model, c.language)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.TranscriptionError("transcribe failed after %v: %v", time.Since(startTime), err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logging.TranscriptionError("transcribe: status %d: %s", resp.StatusCode, string(respBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var listen listenResponse
	if err := json.Unmarshal(respBody, &listen); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	result := &Result{Duration: listen.Metadata.Duration}
	if len(listen.Results.Channels) > 0 && len(listen.Results.Channels[0].Alternatives) > 0 {
		alt := listen.Results.Channels[0].Alternatives[0]
		result.Transcript = alt.Transcript
		result.Confidence = alt.Confidence
	}
	result.Keywords = ExtractKeywords(result.Transcript)

	logging.Transcription("transcribed %d bytes in %v: %d chars, confidence %.2f",
		len(audio), time.Since(startTime), len(result.Transcript), result.Confidence)
	return result, nil
}
