package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles creates a temporary directory holding files (name to content).
// It returns the absolute path to the directory and fails the test immediately on error.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		path := filepath.Join(absPath, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", name)
	}
	return absPath
}
