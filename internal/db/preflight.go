package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// preflightTimeout bounds only the connectivity check, never the restore
// tools themselves.
const preflightTimeout = 10 * time.Second

// Preflight opens a single connection to the target database and pings it.
// A restore spends most of its time inside external tools whose connection
// errors are easy to mistake for benign SQL noise; failing fast here keeps
// connectivity problems from being masked later in the run.
func Preflight(ctx context.Context, config gisrestore.ConnectionConfig, logger gisrestore.Logger) error {
	connConfig, err := pgx.ParseConfig(BuildConnectionString(config))
	if err != nil {
		return fmt.Errorf("invalid connection parameters: %w", gisrestore.ErrInvalidConfig)
	}
	connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("server notice: %s", notice.Message)
	}

	ctx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return wrapConnectionError(err, config)
	}
	defer conn.Close(ctx)

	if err := conn.Ping(ctx); err != nil {
		return wrapConnectionError(err, config)
	}

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err == nil {
		logger.Verbose("connected to %s", version)
	}

	return nil
}

// wrapConnectionError wraps raw pgx connection errors with actionable
// guidance.
func wrapConnectionError(err error, config gisrestore.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := config.Addr()

	switch {
	case strings.Contains(errStr, "connection refused"):
		return fmt.Errorf("no PostgreSQL server listening at %s (is the docker container up?): %w", addr, gisrestore.ErrConnectionFailed)
	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf("cannot resolve host %q: %w", config.Host, gisrestore.ErrConnectionFailed)
	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf("authentication failed for user %q on %s: %w", config.Username, addr, gisrestore.ErrConnectionFailed)
	case strings.Contains(errStr, "does not exist") && strings.Contains(errStr, "database"):
		return fmt.Errorf("database %q does not exist on %s: %w", config.Database, addr, gisrestore.ErrConnectionFailed)
	case strings.Contains(errStr, "context deadline exceeded"):
		return fmt.Errorf("timed out connecting to %s: %w", addr, gisrestore.ErrConnectionFailed)
	default:
		return fmt.Errorf("failed to connect to %s: %v: %w", addr, err, gisrestore.ErrConnectionFailed)
	}
}
