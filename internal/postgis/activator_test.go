package postgis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/gisrestore/internal/logging"
	"github.com/vvka-141/gisrestore/internal/tools"
	"github.com/vvka-141/gisrestore/internal/tools/toolstest"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

type recordingRecoverer struct {
	calls []string
}

func (r *recordingRecoverer) Recover(stderr string) {
	r.calls = append(r.calls, stderr)
}

func testConnection() gisrestore.ConnectionConfig {
	return gisrestore.ConnectionConfig{
		Host:     "localhost",
		Port:     5433,
		Database: "geoserver",
		Username: "postgres",
		Password: "postgres",
		SSLMode:  "disable",
	}
}

func TestEnable_RunsBothStatements(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	recoverer := &recordingRecoverer{}
	a := NewActivator(toolstest.NewFakeLocator(), runner, recoverer, logging.NewNullLogger())

	require.NoError(t, a.Enable(context.Background(), testConnection()))

	cmds := runner.Commands()
	require.Len(t, cmds, 2)
	assert.Contains(t, cmds[0].Args, "CREATE EXTENSION IF NOT EXISTS postgis CASCADE;")
	assert.Contains(t, cmds[1].Args, "CREATE EXTENSION IF NOT EXISTS postgis_topology;")
	assert.Empty(t, recoverer.calls)

	for _, cmd := range cmds {
		assert.Equal(t, "/usr/bin/psql", cmd.Path)
		assert.Equal(t, "postgres", cmd.Env["PGPASSWORD"])
		assert.True(t, cmd.CaptureOutput, "activation must capture stderr for inspection")
		assert.Subset(t, cmd.Args, []string{"-h", "localhost", "-p", "5433", "-U", "postgres", "-d", "geoserver"})
	}
}

func TestEnable_MissingControlFileIsFatal(t *testing.T) {
	const stderr = `ERROR:  could not open extension control file ` +
		`"C:/Program Files/PostgreSQL/17/share/extension/postgis.control": No such file or directory`

	runner := toolstest.NewFakeRunner()
	runner.OnRun = func(cmd tools.Command) (tools.Result, error) {
		return tools.Result{ExitCode: 1, Stderr: stderr}, nil
	}
	recoverer := &recordingRecoverer{}
	a := NewActivator(toolstest.NewFakeLocator(), runner, recoverer, logging.NewNullLogger())

	err := a.Enable(context.Background(), testConnection())
	assert.True(t, errors.Is(err, gisrestore.ErrExtensionMissing), "expected ErrExtensionMissing, got: %v", err)

	// The run stops at the first statement; the second is never attempted.
	assert.Len(t, runner.Commands(), 1)
	require.Len(t, recoverer.calls, 1)
	assert.Equal(t, stderr, recoverer.calls[0])
}

func TestEnable_BenignErrorContinuesToSecondStatement(t *testing.T) {
	runner := toolstest.NewFakeRunner()
	runner.OnRun = func(cmd tools.Command) (tools.Result, error) {
		return tools.Result{ExitCode: 1, Stderr: `ERROR:  extension "postgis" already exists`}, nil
	}
	recoverer := &recordingRecoverer{}
	a := NewActivator(toolstest.NewFakeLocator(), runner, recoverer, logging.NewNullLogger())

	require.NoError(t, a.Enable(context.Background(), testConnection()))
	assert.Len(t, runner.Commands(), 2)
	assert.Empty(t, recoverer.calls)
}

func TestEnable_MissingPsqlIsNonFatal(t *testing.T) {
	locator := toolstest.NewFakeLocator()
	locator.Missing[tools.PSQL] = true
	runner := toolstest.NewFakeRunner()
	a := NewActivator(locator, runner, &recordingRecoverer{}, logging.NewNullLogger())

	require.NoError(t, a.Enable(context.Background(), testConnection()))
	assert.Empty(t, runner.Commands())
}

func TestIsMissingControlFile(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   bool
	}{
		{
			name: "postgis control file missing",
			stderr: `could not open extension control file ` +
				`"C:/Program Files/PostgreSQL/17/share/extension/postgis.control": No such file or directory`,
			want: true,
		},
		{
			name: "topology control file missing",
			stderr: `could not open extension control file ` +
				`"/usr/share/postgresql/16/extension/postgis_topology.control": No such file or directory`,
			want: true,
		},
		{
			name:   "already exists is benign",
			stderr: `ERROR:  extension "postgis" already exists`,
			want:   false,
		},
		{
			name:   "missing file without control file reference",
			stderr: `psql: error: connection to server failed: No such file or directory`,
			want:   false,
		},
		{
			name:   "control file mentioned without missing-file pattern",
			stderr: `ERROR:  permission denied to read postgis.control`,
			want:   false,
		},
		{
			name:   "empty",
			stderr: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissingControlFile(tt.stderr))
		})
	}
}
