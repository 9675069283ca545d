package equivalence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/features"
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

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoaderReadsProviderTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sunnyrentals.json", `{
		"gimnasio": {"canonical": "Gym"},
		"wifi": {"canonical": "WiFi", "scope": "both"},
		"portero": {"canonical": null}
	}`)
	writeFile(t, dir, "notes.txt", "ignored")

	loader, err := NewLoader(dir, nopLogger{})
	require.NoError(t, err)

	table, err := loader.TableFor("sunnyrentals")
	require.NoError(t, err)
	require.Len(t, table, 3)

	require.Equal(t, features.Entry{Canonical: "Gym", HasMapping: true}, table["gimnasio"])
	require.Equal(t, features.ScopeBoth, table["wifi"].Scope)
	require.False(t, table["portero"].HasMapping, "null canonical is a deliberate no-mapping")
}

func TestLoaderUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sunnyrentals.json", `{}`)

	loader, err := NewLoader(dir, nopLogger{})
	require.NoError(t, err)

	_, err = loader.TableFor("nosuchsite")
	require.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestLoaderRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{not json`)

	_, err := NewLoader(dir, nopLogger{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken")
}
