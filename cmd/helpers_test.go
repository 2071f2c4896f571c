// cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/chaser-cli/internal/observability"
)

// resetCommandState clears the package-level state the root command mutates
// so each test starts from a clean slate.
func resetCommandState(t *testing.T) {
	t.Helper()
	cfgFile = ""
	appConfig = nil
	observability.ResetForTest()
}

// executeCommand runs a fresh command tree with the given args and returns
// everything written to its output streams.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandState(t)

	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// writeTempConfig writes YAML into a temp dir and returns the file path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chaser.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
