// Package auditfile persists assembled entities as an append-only audit
// trail on local disk: one JSONL file per entity kind under a per-provider
// directory, plus a CSV summary for quick eyeballing.
package auditfile

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
)

const summaryFile = "summary.csv"

var summaryHeader = []string{"timestamp", "provider", "kind", "payload_bytes"}

type Writer struct {
	baseDir string
	logger  port.LoggerPort

	mu sync.Mutex
}

func NewWriter(baseDir string, logger port.LoggerPort) *Writer {
	return &Writer{baseDir: baseDir, logger: logger}
}

// Append writes the record to its kind's JSONL file and adds a summary row.
// Appends are serialized under one mutex; the sink is off the hot path and
// correctness of interleaved lines matters more than write throughput.
func (w *Writer) Append(ctx context.Context, provider string, record domain.AuditRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Join(w.baseDir, provider)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create audit dir: %w", err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	if err := appendLine(filepath.Join(dir, record.TargetFile()), payload); err != nil {
		return err
	}
	if err := w.appendSummary(dir, provider, record.Kind(), len(payload)); err != nil {
		// The JSONL line is already durable; a summary hiccup is log-worthy
		// but not a sink failure.
		w.logger.Warn("Failed to append audit summary row", port.Fields{
			"provider": provider,
			"error":    err.Error(),
		})
	}
	return nil
}

func appendLine(path string, payload []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

func (w *Writer) appendSummary(dir, provider, kind string, payloadBytes int) error {
	path := filepath.Join(dir, summaryFile)
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if isNew {
		if err := cw.Write(summaryHeader); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{
		time.Now().UTC().Format(time.RFC3339),
		provider,
		kind,
		strconv.Itoa(payloadBytes),
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
