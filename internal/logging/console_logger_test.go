package logging

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStderr runs fn with os.Stderr redirected and returns what was
// written.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestConsoleLogger_Info(t *testing.T) {
	out := captureStderr(t, func() {
		NewConsoleLogger(false).Info("restoring %s", "GisTPI")
	})
	assert.Equal(t, "restoring GisTPI\n", out)
}

func TestConsoleLogger_WarnAndErrorPrefixes(t *testing.T) {
	out := captureStderr(t, func() {
		l := NewConsoleLogger(false)
		l.Warn("tool exited with code %d", 1)
		l.Error("cannot find psql")
	})
	assert.Contains(t, out, "[WARN] tool exited with code 1\n")
	assert.Contains(t, out, "[ERROR] cannot find psql\n")
}

func TestConsoleLogger_VerboseSuppressedByDefault(t *testing.T) {
	out := captureStderr(t, func() {
		NewConsoleLogger(false).Verbose("noisy detail")
	})
	assert.Empty(t, out)
}

func TestConsoleLogger_VerboseEnabled(t *testing.T) {
	out := captureStderr(t, func() {
		NewConsoleLogger(true).Verbose("noisy detail")
	})
	assert.Equal(t, "[VERBOSE] noisy detail\n", out)
}

func TestConsoleLogger_LiteralPercentWithoutArgs(t *testing.T) {
	out := captureStderr(t, func() {
		NewConsoleLogger(false).Info("100% done")
	})
	assert.Equal(t, "100% done\n", out)
}

func TestNullLogger_DiscardsEverything(t *testing.T) {
	out := captureStderr(t, func() {
		l := NewNullLogger()
		l.Verbose("a")
		l.Info("b")
		l.Warn("c")
		l.Error("d")
	})
	assert.Empty(t, out)
}
