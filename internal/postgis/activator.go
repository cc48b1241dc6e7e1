// Package postgis enables the spatial extensions on the target database
// before an import, and drives the installer recovery flow when the
// extension files are missing from the server entirely.
package postgis

import (
	"context"
	"strconv"
	"strings"

	"github.com/vvka-141/gisrestore/internal/tools"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// statements are the idempotent DDL statements run before every import
// except the GeoPackage path (ogr2ogr manages its own requirements).
// Both are always attempted: a non-fatal failure of the first must not
// skip the second.
var statements = []string{
	"CREATE EXTENSION IF NOT EXISTS postgis CASCADE;",
	"CREATE EXTENSION IF NOT EXISTS postgis_topology;",
}

// Recoverer launches the best-effort recovery action when the extension
// files are missing from the server installation.
type Recoverer interface {
	Recover(stderr string)
}

// Activator runs the extension activation statements through psql.
type Activator struct {
	locator   tools.Locator
	runner    tools.Runner
	recoverer Recoverer
	logger    gisrestore.Logger
}

// NewActivator creates an Activator with the given collaborators.
func NewActivator(locator tools.Locator, runner tools.Runner, recoverer Recoverer, logger gisrestore.Logger) *Activator {
	return &Activator{
		locator:   locator,
		runner:    runner,
		recoverer: recoverer,
		logger:    logger,
	}
}

// Enable attempts both activation statements independently against the
// configured database.
//
// Per statement: exit 0 is logged and execution continues; an error whose
// text matches IsMissingControlFile aborts the whole run with
// gisrestore.ErrExtensionMissing after triggering the recovery flow; any
// other failure is a warning (commonly "extension already exists") and
// execution continues into the import.
func (a *Activator) Enable(ctx context.Context, config gisrestore.ConnectionConfig) error {
	a.logger.Info("--- STEP 1: ENABLING POSTGIS ON THE DATABASE ---")

	psql, err := a.locator.Locate(tools.PSQL)
	if err != nil {
		a.logger.Error("cannot find psql, skipping extension activation: %v", err)
		return nil
	}

	for _, sql := range statements {
		cmd := tools.Command{
			Path: psql,
			Args: []string{
				"-h", config.Host,
				"-p", strconv.Itoa(config.Port),
				"-U", config.Username,
				"-d", config.Database,
				"-c", sql,
			},
			Env:           map[string]string{"PGPASSWORD": config.Password},
			CaptureOutput: true,
		}

		result, err := a.runner.Run(ctx, cmd)
		if err != nil {
			a.logger.Error("failed to run psql: %v", err)
			continue
		}

		if result.ExitCode == 0 {
			a.logger.Info("executed: %s", sql)
			continue
		}

		if IsMissingControlFile(result.Stderr) {
			a.logger.Error("PostGIS is not installed on this server.")
			a.recoverer.Recover(result.Stderr)
			return gisrestore.ErrExtensionMissing
		}

		a.logger.Warn("SQL error (ignorable if the extension already exists): %s", strings.TrimSpace(result.Stderr))
	}

	return nil
}

// IsMissingControlFile reports whether a psql error text indicates the
// PostGIS extension files are absent from the server installation, as
// opposed to an ordinary SQL failure. This is the single definition of
// the fatal-activation predicate.
func IsMissingControlFile(stderr string) bool {
	if !strings.Contains(stderr, "No such file or directory") {
		return false
	}
	return strings.Contains(stderr, "postgis.control") ||
		strings.Contains(stderr, "postgis_topology.control")
}
