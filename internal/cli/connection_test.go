package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/gisrestore/internal/config"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// isolatePgpass points PGPASSFILE at a non-existent file so tests never
// read the developer's real .pgpass.
func isolatePgpass(t *testing.T) {
	t.Helper()
	t.Setenv("PGPASSFILE", filepath.Join(t.TempDir(), "pgpass"))
}

func TestResolveConnection_Defaults(t *testing.T) {
	isolatePgpass(t)

	cfg, err := resolveConnection(connFlagValues{}, envVars{}, nil)
	require.NoError(t, err)

	assert.Equal(t, gisrestore.DefaultHost, cfg.Host)
	assert.Equal(t, gisrestore.DefaultPort, cfg.Port)
	assert.Equal(t, gisrestore.DefaultUsername, cfg.Username)
	assert.Equal(t, gisrestore.DefaultDatabase, cfg.Database)
	assert.Equal(t, gisrestore.DefaultSSLMode, cfg.SSLMode)
	assert.Equal(t, gisrestore.DefaultPassword, cfg.Password)
}

func TestResolveConnection_FlagsBeatEverything(t *testing.T) {
	isolatePgpass(t)

	flags := connFlagValues{
		host:     "flag-host",
		port:     6000,
		username: "flag-user",
		database: "flag-db",
		sslMode:  "require",
	}
	env := envVars{
		PGHOST:     "env-host",
		PGPORT:     "7000",
		PGUSER:     "env-user",
		PGDATABASE: "env-db",
		PGSSLMODE:  "verify-full",
	}
	projectCfg := &config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host: "yaml-host", Port: 8000, Username: "yaml-user",
			Database: "yaml-db", SSLMode: "allow",
		},
	}

	cfg, err := resolveConnection(flags, env, projectCfg)
	require.NoError(t, err)

	assert.Equal(t, "flag-host", cfg.Host)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "flag-user", cfg.Username)
	assert.Equal(t, "flag-db", cfg.Database)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestResolveConnection_EnvBeatsYAML(t *testing.T) {
	isolatePgpass(t)

	env := envVars{PGHOST: "env-host", PGPORT: "7000"}
	projectCfg := &config.ProjectConfig{
		Connection: config.ConnectionConfig{Host: "yaml-host", Port: 8000, Database: "yaml-db"},
	}

	cfg, err := resolveConnection(connFlagValues{}, env, projectCfg)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Host)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "yaml-db", cfg.Database, "yaml fills what env leaves empty")
}

func TestResolveConnection_InvalidPGPORT(t *testing.T) {
	isolatePgpass(t)

	_, err := resolveConnection(connFlagValues{}, envVars{PGPORT: "not-a-port"}, nil)
	assert.ErrorIs(t, err, gisrestore.ErrInvalidConfig)
}

func TestResolveConnection_PGPASSWORDWins(t *testing.T) {
	isolatePgpass(t)

	cfg, err := resolveConnection(connFlagValues{}, envVars{PGPASSWORD: "secret"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Password)
}
