// Package recorder hands finalized call records to the persistence
// collaborator. Delivery is best-effort: the caller has already hung up
// by the time a record exists, so a persistence failure is logged and
// never propagated to the caller-facing response.
package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/frontdesk-ai/frontdesk/backend/internal/model/call"
)

// Recorder accepts a finalized session record for durable storage.
type Recorder interface {
	Record(ctx context.Context, rec call.FinalizedRecord) error
}

// HTTPRecorder POSTs records as JSON to the persistence service.
type HTTPRecorder struct {
	url    string
	client *http.Client
}

// NewHTTPRecorder builds a recorder targeting url with its own timeout,
// so a slow persistence service cannot stall session teardown.
func NewHTTPRecorder(url string, timeout time.Duration) *HTTPRecorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRecorder{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Record submits one finalized record.
func (r *HTTPRecorder) Record(ctx context.Context, rec call.FinalizedRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build record request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("record rejected with status %d", resp.StatusCode)
	}
	return nil
}

// LogRecorder logs records instead of persisting them. Used when no
// recorder endpoint is configured.
type LogRecorder struct{}

// Record writes a summary line for the finalized session.
func (LogRecorder) Record(_ context.Context, rec call.FinalizedRecord) error {
	log.Printf("[recorder] session=%s owner=%s turns=%d duration=%ds (no endpoint configured)",
		rec.SessionID, rec.OwnerID, len(rec.Transcript), rec.DurationSeconds)
	return nil
}
