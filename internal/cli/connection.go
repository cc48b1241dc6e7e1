package cli

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/vvka-141/gisrestore/internal/config"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// connFlagValues holds the granular connection flags of the restore
// command, following psql's flag conventions (-h, -p, -U, -d).
type connFlagValues struct {
	host     string
	port     int
	username string
	database string
	sslMode  string
}

// envVars represents the PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type envVars struct {
	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string
}

func loadEnvVars() envVars {
	return envVars{
		PGHOST:     os.Getenv("PGHOST"),
		PGPORT:     os.Getenv("PGPORT"),
		PGUSER:     os.Getenv("PGUSER"),
		PGPASSWORD: os.Getenv("PGPASSWORD"),
		PGDATABASE: os.Getenv("PGDATABASE"),
		PGSSLMODE:  os.Getenv("PGSSLMODE"),
	}
}

// resolveConnection builds the immutable connection parameters for a run.
//
// Precedence for each parameter: CLI flag > PG* environment variable >
// gisrestore.yaml > built-in default (the docker-compose PostGIS setup).
// The password is resolved separately: $PGPASSWORD > .pgpass > interactive
// prompt (TTY only) > built-in default.
func resolveConnection(flags connFlagValues, env envVars, projectCfg *config.ProjectConfig) (gisrestore.ConnectionConfig, error) {
	var pc config.ConnectionConfig
	if projectCfg != nil {
		pc = projectCfg.Connection
	}

	cfg := gisrestore.ConnectionConfig{}

	// Host: flag > PGHOST > yaml > default
	cfg.Host = firstNonEmpty(flags.host, env.PGHOST, pc.Host, gisrestore.DefaultHost)

	// Port: flag > PGPORT > yaml > default
	switch {
	case flags.port != 0:
		cfg.Port = flags.port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return gisrestore.ConnectionConfig{}, fmt.Errorf("invalid $PGPORT value %q: %w", env.PGPORT, gisrestore.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = gisrestore.DefaultPort
	}

	// Username: flag > PGUSER > yaml > default
	cfg.Username = firstNonEmpty(flags.username, env.PGUSER, pc.Username, gisrestore.DefaultUsername)

	// Database: flag > PGDATABASE > yaml > default
	cfg.Database = firstNonEmpty(flags.database, env.PGDATABASE, pc.Database, gisrestore.DefaultDatabase)

	// SSLMode: flag > PGSSLMODE > yaml > default
	cfg.SSLMode = firstNonEmpty(flags.sslMode, env.PGSSLMODE, pc.SSLMode, gisrestore.DefaultSSLMode)

	cfg.Password = resolvePassword(cfg, env)

	return cfg, nil
}

// resolvePassword picks the password for the resolved connection.
func resolvePassword(cfg gisrestore.ConnectionConfig, env envVars) string {
	if env.PGPASSWORD != "" {
		return env.PGPASSWORD
	}

	if password, ok := lookupPgpass(cfg.Host, cfg.Port, cfg.Database, cfg.Username); ok {
		return password
	}

	if password, ok := promptPassword(cfg.Username); ok {
		return password
	}

	return gisrestore.DefaultPassword
}

// promptPassword asks for the password on the terminal without echo.
// Returns false when stdin is not a TTY or the read fails.
func promptPassword(username string) (string, bool) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", false
	}

	fmt.Fprintf(os.Stderr, "Password for user %s: ", username)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
