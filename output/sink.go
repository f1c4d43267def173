// Package output delivers completed form results to persistent sinks.
// Sinks are driver-side collaborators: the session core never writes here.
package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/intakekit/intake/types"
)

// Result is the payload handed to a sink once a session completes.
type Result struct {
	SessionID string                 `json:"session_id"`
	FormID    string                 `json:"form_id"`
	Mode      types.Mode             `json:"mode"`
	Completed time.Time              `json:"completed_at"`
	Fields    []types.CollectedEntry `json:"collected_fields"`
}

type Sink interface {
	Write(ctx context.Context, res *Result) error
}

// JSONFileSink writes one pretty-printed JSON file per result.
type JSONFileSink struct {
	Path string
}

func (s *JSONFileSink) Write(ctx context.Context, res *Result) error {
	data, err := sonic.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}

// CSVFileSink appends one row per field to a CSV file, creating the header
// when the file is new.
type CSVFileSink struct {
	Path string
}

func (s *CSVFileSink) Write(ctx context.Context, res *Result) error {
	_, statErr := os.Stat(s.Path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write([]string{"session_id", "form_id", "field_id", "value", "confidence", "method", "notes"}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, e := range res.Fields {
		if e.Result == nil {
			continue
		}
		notes, err := sonic.MarshalString(e.Result.Notes)
		if err != nil {
			return fmt.Errorf("marshal notes: %w", err)
		}
		row := []string{
			res.SessionID,
			res.FormID,
			e.FieldID,
			fmt.Sprintf("%v", e.Result.Value),
			fmt.Sprintf("%.2f", e.Result.Confidence),
			string(e.Result.Method),
			notes,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WebhookSink posts the result as JSON to a URL.
type WebhookSink struct {
	URL    string
	Client *http.Client
}

func (s *WebhookSink) Write(ctx context.Context, res *Result) error {
	data, err := sonic.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post to %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d", s.URL, resp.StatusCode)
	}
	return nil
}
