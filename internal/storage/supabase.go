// Package storage uploads session artifacts (audio, transcriptions, reports,
// datasets) to a Supabase Storage bucket over its REST API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"personify/internal/config"
	"personify/internal/logging"
	"personify/internal/manual"
	"personify/internal/protocol"
)

// ErrNotConfigured is returned at construction when the storage base URL or
// API key is missing. Uploads are optional; callers decide whether that is
// fatal.
var ErrNotConfigured = errors.New("object storage not configured")

// UploadError reports a non-success status from the storage API.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("storage request failed with status %d: %s", e.StatusCode, e.Body)
}

// UploadResult identifies an uploaded object.
type UploadResult struct {
	Path      string
	FileName  string
	PublicURL string
}

// Client talks to one Supabase Storage bucket. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client

	// now is swappable so tests get deterministic object names.
	now func() time.Time
}

// New builds a storage client from configuration.
func New(cfg config.StorageConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "dna-protocol-files"
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}, nil
}

// userFolder maps an email to the user's folder inside the bucket.
// "a@b.com" becomes "users/a_b_com".
func userFolder(userEmail string) string {
	sanitized := strings.ReplaceAll(userEmail, "@", "_")
	sanitized = strings.ReplaceAll(sanitized, ".", "_")
	return "users/" + sanitized
}

// objectTimestamp renders the current time the way object names expect:
// ISO-8601 with ':' and '.' replaced so the name stays path-safe.
func (c *Client) objectTimestamp() string {
	ts := c.now().UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.ReplaceAll(ts, ":", "-")
	return strings.ReplaceAll(ts, ".", "-")
}

// PublicURL returns the public download URL for an object path.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path)
}

func (c *Client) upload(ctx context.Context, path, contentType string, content []byte) (*UploadResult, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "3600")
	req.Header.Set("x-upsert", "false")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.StorageError("upload %s failed: %v", path, err)
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.StorageError("upload %s: status %d: %s", path, resp.StatusCode, string(body))
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	logging.Storage("uploaded %s (%d bytes)", path, len(content))
	parts := strings.Split(path, "/")
	return &UploadResult{
		Path:      path,
		FileName:  parts[len(parts)-1],
		PublicURL: c.PublicURL(path),
	}, nil
}

// UploadAudio stores one answer's audio recording.
func (c *Client) UploadAudio(ctx context.Context, userEmail string, questionIndex int, audio []byte) (*UploadResult, error) {
	fileName := fmt.Sprintf("Q%03d_AUDIO_%s.wav", questionIndex, c.objectTimestamp())
	path := fmt.Sprintf("%s/audio/%s", userFolder(userEmail), fileName)
	return c.upload(ctx, path, "audio/wav", audio)
}

// UploadTranscription stores one answer's transcription with its framing
// header, so the file is readable on its own.
func (c *Client) UploadTranscription(ctx context.Context, userEmail string, questionIndex int, questionText, transcript string) (*UploadResult, error) {
	fileName := fmt.Sprintf("Q%03d_TRANSCRICAO_%s.txt", questionIndex, c.objectTimestamp())
	path := fmt.Sprintf("%s/transcriptions/%s", userFolder(userEmail), fileName)

	content := fmt.Sprintf(`DNA UP - Análise Narrativa Profunda
Data: %s
Usuário: %s
Pergunta %d: %s

TRANSCRIÇÃO:
%s

---
Gerado automaticamente pelo DNA UP Platform
`, c.now().Format("02/01/2006 15:04:05"), userEmail, questionIndex, questionText, transcript)

	return c.upload(ctx, path, "text/plain", []byte(content))
}

// UploadDataset stores the fine-tuning dataset as JSONL, one example per line.
func (c *Client) UploadDataset(ctx context.Context, userEmail string, dataset []manual.FineTuningExample) (*UploadResult, error) {
	fileName := fmt.Sprintf("DNA_UP_FINE_TUNING_DATASET_%s.jsonl", c.objectTimestamp())
	path := fmt.Sprintf("%s/datasets/%s", userFolder(userEmail), fileName)

	content, err := RenderJSONL(dataset)
	if err != nil {
		return nil, err
	}
	return c.upload(ctx, path, "application/jsonl", content)
}

// UploadReport renders the manual as a markdown report and stores it.
func (c *Client) UploadReport(ctx context.Context, userEmail string, m *manual.PersonificationManual, records []protocol.ResponseRecord) (*UploadResult, error) {
	fileName := fmt.Sprintf("DNA_UP_RELATORIO_AVANCADO_%s.md", c.objectTimestamp())
	path := fmt.Sprintf("%s/reports/%s", userFolder(userEmail), fileName)

	content := RenderReport(userEmail, m, records, c.now())
	return c.upload(ctx, path, "text/markdown", []byte(content))
}

// UploadResponsesSnapshot stores the raw response records as JSON, the
// machine-readable companion to the report.
func (c *Client) UploadResponsesSnapshot(ctx context.Context, userEmail string, records []protocol.ResponseRecord) (*UploadResult, error) {
	fileName := fmt.Sprintf("DNA_UP_RESPOSTAS_%s.json", c.objectTimestamp())
	path := fmt.Sprintf("%s/responses/%s", userFolder(userEmail), fileName)

	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responses: %w", err)
	}
	return c.upload(ctx, path, "application/json", content)
}

// ObjectInfo is one entry from a bucket listing.
type ObjectInfo struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	UpdatedAt string `json:"updated_at"`
}

// ListUserFiles lists a user's stored objects, optionally under one folder
// (audio, transcriptions, reports, datasets, responses).
func (c *Client) ListUserFiles(ctx context.Context, userEmail, folder string) ([]ObjectInfo, error) {
	prefix := userFolder(userEmail)
	if folder != "" {
		prefix += "/" + folder
	}

	reqBody, err := json.Marshal(map[string]string{"prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var objects []ObjectInfo
	if err := json.Unmarshal(body, &objects); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}
	return objects, nil
}

// Delete removes one object by path.
func (c *Client) Delete(ctx context.Context, path string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, "DELETE", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &UploadError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	logging.Storage("deleted %s", path)
	return nil
}

// RenderJSONL encodes the dataset one JSON object per line.
func RenderJSONL(dataset []manual.FineTuningExample) ([]byte, error) {
	var buf bytes.Buffer
	for i, example := range dataset {
		line, err := json.Marshal(example)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal example %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(line)
	}
	return buf.Bytes(), nil
}
