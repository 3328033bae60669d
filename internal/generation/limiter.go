package generation

import (
	"context"
	"encoding/json"
)

// DefaultMaxConcurrent caps in-flight upstream calls when no explicit limit
// is configured. The facet fan-out issues nine calls at once; without a cap
// a batch of sessions would multiply that directly into the provider.
const DefaultMaxConcurrent = 4

// LimitedClient wraps a Client with a semaphore bounding concurrent calls.
// Acquisition respects context cancellation, so callers blocked on a slot
// still honor deadlines.
type LimitedClient struct {
	inner Client
	slots chan struct{}
}

// Limited wraps client with a concurrency cap. A non-positive max falls back
// to DefaultMaxConcurrent. Wrapping an already limited client returns it
// unchanged.
func Limited(client Client, max int) Client {
	if _, ok := client.(*LimitedClient); ok {
		return client
	}
	if max <= 0 {
		max = DefaultMaxConcurrent
	}
	return &LimitedClient{
		inner: client,
		slots: make(chan struct{}, max),
	}
}

func (l *LimitedClient) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *LimitedClient) release() {
	<-l.slots
}

// Complete sends a prompt once a slot is available.
func (l *LimitedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", err
	}
	defer l.release()
	return l.inner.Complete(ctx, prompt)
}

// CompleteJSON sends a JSON-mode prompt once a slot is available.
func (l *LimitedClient) CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer l.release()
	return l.inner.CompleteJSON(ctx, prompt)
}
