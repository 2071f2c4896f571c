// cmd/run_test.go
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresURL(t *testing.T) {
	_, err := executeCommand(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRunTypeRequiresInto(t *testing.T) {
	// Fails validation before any browser is launched.
	_, err := executeCommand(t, "run", "example.com", "--type", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--into")
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", normalizeURL("example.com"))
	assert.Equal(t, "https://example.com/login", normalizeURL("example.com/login"))
	assert.Equal(t, "http://example.com", normalizeURL("http://example.com"))
	assert.Equal(t, "https://example.com", normalizeURL("https://example.com"))
}
