package operator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// HTTPStore resolves slugs against the persistence service's public
// target endpoint. Lookup failures are logged and reported as not found;
// the caller-facing layer treats both identically.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore builds a store querying baseURL, e.g.
// "http://persistence:5000/v1/receptionist/public/target".
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FindBySlug queries the persistence service for the operator behind slug.
func (s *HTTPStore) FindBySlug(ctx context.Context, slug string) (Operator, bool) {
	endpoint := fmt.Sprintf("%s?slug=%s", s.baseURL, url.QueryEscape(slug))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("[directory] failed to build request: %v", err)
		return Operator{}, false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[directory] lookup failed for slug=%s: %v", slug, err)
		return Operator{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Operator{}, false
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[directory] unexpected status %d for slug=%s", resp.StatusCode, slug)
		return Operator{}, false
	}

	var payload struct {
		Operator Operator `json:"operator"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[directory] failed to decode response for slug=%s: %v", slug, err)
		return Operator{}, false
	}
	if payload.Operator.ID == "" {
		return Operator{}, false
	}

	op := payload.Operator
	if op.Slug == "" {
		op.Slug = slug
	}
	return op, true
}
