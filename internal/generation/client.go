// Package generation wraps the external text-generation service behind a
// small client interface. Two backends exist: a REST client speaking the
// generateContent wire format directly, and one built on the official SDK.
// All personality analysis flows through this package; nothing here retries.
package generation

import (
	"context"
	"encoding/json"
	"time"
)

// Client is the minimal interface the analysis pipeline uses to call the
// generation service.
type Client interface {
	// Complete sends a prompt and returns the raw text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteJSON sends a prompt requesting machine-readable output and
	// returns the isolated JSON fragment of the response. Returns a
	// *MalformedResponseError when no parseable fragment is found.
	CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

// Generation parameters shared by both backends. These mirror the fixed
// configuration of the original analysis engine and are not part of the
// per-call contract.
const (
	defaultTemperature     = 0.4
	defaultTopK            = 32
	defaultTopP            = 0.95
	defaultMaxOutputTokens = 8192
	defaultTimeout         = 90 * time.Second
)
