package output

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/intakekit/intake/types"
)

func sampleResult() *Result {
	return &Result{
		SessionID: "s-1",
		FormID:    "contact",
		Mode:      types.ModeFast,
		Completed: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Fields: []types.CollectedEntry{
			{FieldID: "name", Result: &types.Collected{Value: "Alice Smith", RawInput: "Alice Smith", Confidence: 1.0, Method: types.StrategyFast}},
			{FieldID: "age", Result: &types.Collected{Value: 30.0, RawInput: "30", Confidence: 1.0, Method: types.StrategyFast, Notes: []string{"approximate"}}},
		},
	}
}

func TestJSONFileSink(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "result.json")
	sink := &JSONFileSink{Path: path}

	if err := sink.Write(context.Background(), sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got Result
	if err := sonic.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SessionID != "s-1" || got.FormID != "contact" {
		t.Errorf("round trip lost identity: %+v", got)
	}
	if len(got.Fields) != 2 || got.Fields[0].FieldID != "name" {
		t.Errorf("round trip lost fields: %+v", got.Fields)
	}
}

func TestCSVFileSinkAppendsWithHeader(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results.csv")
	sink := &CSVFileSink{Path: path}
	ctx := context.Background()

	if err := sink.Write(ctx, sampleResult()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	second := sampleResult()
	second.SessionID = "s-2"
	if err := sink.Write(ctx, second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// Header once, then two fields per result.
	if len(rows) != 5 {
		t.Fatalf("row count = %d, want 5", len(rows))
	}
	if rows[0][0] != "session_id" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "s-1" || rows[3][0] != "s-2" {
		t.Errorf("session ids = %q, %q", rows[1][0], rows[3][0])
	}
	if rows[2][3] != "30" || rows[2][4] != "1.00" {
		t.Errorf("age row = %v", rows[2])
	}
}

func TestCSVFileSinkSkipsNilResults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results.csv")
	sink := &CSVFileSink{Path: path}

	res := sampleResult()
	res.Fields = append(res.Fields, types.CollectedEntry{FieldID: "ghost"})
	if err := sink.Write(context.Background(), res); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if strings.Contains(string(data), "ghost") {
		t.Error("nil result row was written")
	}
}

func TestWebhookSink(t *testing.T) {
	t.Parallel()
	var received []byte
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := &WebhookSink{URL: srv.URL}
	if err := sink.Write(context.Background(), sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	var got Result
	if err := sonic.Unmarshal(received, &got); err != nil {
		t.Fatalf("unmarshal posted body: %v", err)
	}
	if got.SessionID != "s-1" || len(got.Fields) != 2 {
		t.Errorf("posted payload = %+v", got)
	}
}

func TestWebhookSinkErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	sink := &WebhookSink{URL: srv.URL}
	err := sink.Write(context.Background(), sampleResult())
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v", err)
	}
}
