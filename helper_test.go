// FILE: lixenwraith/cascade/helper_test.go
package cascade

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cascade/internal/logger"
)

// writeFiles creates files relative to dir, making parent directories.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// bufferLogger returns a debug-level logger writing into the returned buffer.
func bufferLogger(component string) (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(&buf, logger.ParseLevel("debug"), component), &buf
}

func nopLogger() *logger.Logger {
	return logger.Nop()
}
