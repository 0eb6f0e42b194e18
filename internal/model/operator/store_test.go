package operator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontdesk-ai/frontdesk/backend/internal/model/operator"
)

func TestMemoryStoreFindBySlug(t *testing.T) {
	store := operator.NewMemoryStore(operator.Seed())
	ctx := context.Background()

	op, ok := store.FindBySlug(ctx, "demo")
	if !ok {
		t.Fatal("expected seeded operator for slug demo")
	}
	if op.Name == "" {
		t.Fatal("expected operator name to be populated")
	}

	if _, ok := store.FindBySlug(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown slug")
	}
}

func TestHTTPStoreFindBySlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		if slug != "demo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"operator": operator.Operator{ID: "op-1", Name: "Dana Whitfield"},
		})
	}))
	defer srv.Close()

	store := operator.NewHTTPStore(srv.URL, time.Second)
	ctx := context.Background()

	op, ok := store.FindBySlug(ctx, "demo")
	if !ok {
		t.Fatal("expected operator from directory")
	}
	if op.ID != "op-1" {
		t.Fatalf("unexpected operator id: %s", op.ID)
	}
	if op.Slug != "demo" {
		t.Fatalf("expected slug backfill, got %q", op.Slug)
	}

	if _, ok := store.FindBySlug(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown slug")
	}
}

func TestHTTPStoreUnreachable(t *testing.T) {
	store := operator.NewHTTPStore("http://127.0.0.1:0", 200*time.Millisecond)
	if _, ok := store.FindBySlug(context.Background(), "demo"); ok {
		t.Fatal("expected miss when directory is unreachable")
	}
}
