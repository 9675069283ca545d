package auditfile

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
)

type nopLogger struct{}

func (nopLogger) Debug(string, port.Fields)        {}
func (nopLogger) Info(string, port.Fields)         {}
func (nopLogger) Warn(string, port.Fields)         {}
func (nopLogger) Error(string, error, port.Fields) {}
func (l nopLogger) WithFields(port.Fields) port.LoggerPort {
	return l
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestWriterAppendsJSONLPerKind(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nopLogger{})
	ctx := context.Background()

	require.NoError(t, w.Append(ctx, "sunnyrentals", domain.Property{ReferenceCode: "malaga-Centro-001"}))
	require.NoError(t, w.Append(ctx, "sunnyrentals", domain.RentalUnit{ReferenceCode: "M-C-001"}))
	require.NoError(t, w.Append(ctx, "sunnyrentals", domain.RentalUnit{ReferenceCode: "M-C-002"}))

	props := readLines(t, filepath.Join(dir, "sunnyrentals", "properties.jsonl"))
	require.Len(t, props, 1)

	var p domain.Property
	require.NoError(t, json.Unmarshal([]byte(props[0]), &p))
	require.Equal(t, "malaga-Centro-001", p.ReferenceCode)

	units := readLines(t, filepath.Join(dir, "sunnyrentals", "rental_units.jsonl"))
	require.Len(t, units, 2)
}

func TestWriterSummaryCarriesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nopLogger{})
	ctx := context.Background()

	require.NoError(t, w.Append(ctx, "sunnyrentals", domain.CalendarBlock{StartDate: "2025-08-01", EndDate: "2025-08-31"}))
	require.NoError(t, w.Append(ctx, "sunnyrentals", domain.CalendarBlock{StartDate: "2025-09-01", EndDate: "2025-09-30"}))

	lines := readLines(t, filepath.Join(dir, "sunnyrentals", "summary.csv"))
	require.Len(t, lines, 3)
	require.Equal(t, "timestamp,provider,kind,payload_bytes", lines[0])
	require.True(t, strings.Contains(lines[1], "calendar_block"))
}

func TestWriterSeparatesProviders(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nopLogger{})
	ctx := context.Background()

	require.NoError(t, w.Append(ctx, "sunnyrentals", domain.Property{ReferenceCode: "a-001"}))
	require.NoError(t, w.Append(ctx, "coastalhomes", domain.Property{ReferenceCode: "b-001"}))

	require.Len(t, readLines(t, filepath.Join(dir, "sunnyrentals", "properties.jsonl")), 1)
	require.Len(t, readLines(t, filepath.Join(dir, "coastalhomes", "properties.jsonl")), 1)
}
