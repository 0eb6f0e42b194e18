package recorder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontdesk-ai/frontdesk/backend/internal/model/call"
	"github.com/frontdesk-ai/frontdesk/backend/internal/recorder"
)

func sampleRecord() call.FinalizedRecord {
	started := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	return call.FinalizedRecord{
		OwnerID:   "op-1",
		SessionID: "sess-1",
		Transcript: []call.Turn{
			{Role: call.RoleCaller, Content: "What are your hours?"},
			{Role: call.RoleAssistant, Content: "We are open 9 to 5."},
		},
		DurationSeconds: 42,
		StartedAt:       started,
		EndedAt:         started.Add(42 * time.Second),
	}
}

func TestHTTPRecorderDelivers(t *testing.T) {
	var got call.FinalizedRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode err: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	rec := recorder.NewHTTPRecorder(srv.URL, time.Second)
	if err := rec.Record(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if got.SessionID != "sess-1" || len(got.Transcript) != 2 {
		t.Fatalf("unexpected delivered record: %+v", got)
	}
}

func TestHTTPRecorderRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := recorder.NewHTTPRecorder(srv.URL, time.Second)
	if err := rec.Record(context.Background(), sampleRecord()); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestHTTPRecorderUnreachable(t *testing.T) {
	rec := recorder.NewHTTPRecorder("http://127.0.0.1:0", 200*time.Millisecond)
	if err := rec.Record(context.Background(), sampleRecord()); err == nil {
		t.Fatal("expected error when endpoint is unreachable")
	}
}

func TestLogRecorderNeverFails(t *testing.T) {
	if err := (recorder.LogRecorder{}).Record(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("LogRecorder should not fail: %v", err)
	}
}
