// Package importer dispatches the detected dump format to the matching
// external restore tool.
package importer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vvka-141/gisrestore/internal/db"
	"github.com/vvka-141/gisrestore/internal/tools"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// Activator enables the spatial extensions before an import.
type Activator interface {
	Enable(ctx context.Context, config gisrestore.ConnectionConfig) error
}

// Importer runs the format-appropriate external tool against the target
// database. One invocation per run, always blocking.
type Importer struct {
	locator   tools.Locator
	runner    tools.Runner
	activator Activator
	logger    gisrestore.Logger
}

// New creates an Importer with the given collaborators.
func New(locator tools.Locator, runner tools.Runner, activator Activator, logger gisrestore.Logger) *Importer {
	return &Importer{
		locator:   locator,
		runner:    runner,
		activator: activator,
		logger:    logger,
	}
}

// Import restores the input file using the tool matching format.
//
// An unknown format falls back to the binary dump path as a best-effort
// default. Only two failure classes abort with an error: missing extension
// files during activation, and a non-zero exit from the SQL script import.
// Everything else is reported on the console and tolerated.
func (i *Importer) Import(ctx context.Context, format gisrestore.Format, config gisrestore.RestoreConfig) error {
	switch format {
	case gisrestore.FormatDump:
		return i.restoreDump(ctx, config)
	case gisrestore.FormatScript:
		return i.runScript(ctx, config)
	case gisrestore.FormatGeoPackage:
		return i.convertGeoPackage(ctx, config)
	default:
		i.logger.Warn("could not identify the file format, trying pg_restore...")
		return i.restoreDump(ctx, config)
	}
}

// restoreDump replays a binary dump with pg_restore in clean+restore mode:
// conflicting objects are dropped first (tolerating their absence) and
// original ownership and ACLs are stripped.
func (i *Importer) restoreDump(ctx context.Context, config gisrestore.RestoreConfig) error {
	i.logger.Info("--- STEP 2: IMPORTING BINARY DUMP (pg_restore) ---")

	if err := i.activator.Enable(ctx, config.Connection); err != nil {
		return err
	}

	pgRestore, err := i.locator.Locate(tools.PGRestore)
	if err != nil {
		i.logger.Error("cannot find pg_restore: %v", err)
		return nil
	}

	conn := config.Connection
	cmd := tools.Command{
		Path: pgRestore,
		Args: append(connectionArgs(conn),
			"-v",
			"-c",
			"--if-exists",
			"--no-owner",
			"--no-acl",
			config.InputPath,
		),
		Env: map[string]string{"PGPASSWORD": conn.Password},
	}

	i.logger.Info("running restore...")
	result, err := i.runner.Run(ctx, cmd)
	if err != nil {
		i.logger.Warn("error running pg_restore: %v", err)
		return nil
	}
	if result.ExitCode != 0 {
		i.logger.Warn("pg_restore exited with code %d", result.ExitCode)
	}

	i.logger.Info("done. Ignore minor warnings if the tables were created.")
	return nil
}

// runScript replays a plain SQL script with psql. This is the one path
// where a non-zero tool exit aborts the run with an error.
func (i *Importer) runScript(ctx context.Context, config gisrestore.RestoreConfig) error {
	i.logger.Info("--- STEP 2: IMPORTING SQL SCRIPT ---")

	if err := i.activator.Enable(ctx, config.Connection); err != nil {
		return err
	}

	psql, err := i.locator.Locate(tools.PSQL)
	if err != nil {
		i.logger.Error("cannot find psql: %v", err)
		return nil
	}

	conn := config.Connection
	cmd := tools.Command{
		Path: psql,
		Args: append(connectionArgs(conn), "-f", config.InputPath),
		Env:  map[string]string{"PGPASSWORD": conn.Password},
	}

	result, err := i.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("error running psql: %v: %w", err, gisrestore.ErrImportFailed)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("psql exited with code %d: %w", result.ExitCode, gisrestore.ErrImportFailed)
	}

	i.logger.Info("SQL import finished.")
	return nil
}

// convertGeoPackage imports a SQLite-backed GeoPackage with ogr2ogr,
// overwriting the destination table. No prior extension activation:
// ogr2ogr manages its own PostGIS requirements.
func (i *Importer) convertGeoPackage(ctx context.Context, config gisrestore.RestoreConfig) error {
	i.logger.Info("--- IMPORTING WITH OGR2OGR ---")

	ogr2ogr, err := i.locator.Locate(tools.Ogr2Ogr)
	if err != nil {
		i.logger.Error("cannot find ogr2ogr: %v", err)
		return nil
	}

	cmd := tools.Command{
		Path: ogr2ogr,
		Args: []string{
			"-f", "PostgreSQL",
			db.BuildOGRDataSource(config.Connection),
			config.InputPath,
			"-overwrite",
			"-nln", config.ImportTable,
		},
	}

	result, err := i.runner.Run(ctx, cmd)
	if err != nil {
		i.logger.Warn("error running ogr2ogr: %v", err)
		return nil
	}
	if result.ExitCode != 0 {
		i.logger.Warn("ogr2ogr exited with code %d", result.ExitCode)
		return nil
	}

	i.logger.Info("GeoPackage import finished into table %q.", config.ImportTable)
	return nil
}

// connectionArgs renders the shared libpq tool flags for the target
// database. The password travels through PGPASSWORD, never as an argument.
func connectionArgs(conn gisrestore.ConnectionConfig) []string {
	return []string{
		"-h", conn.Host,
		"-p", strconv.Itoa(conn.Port),
		"-U", conn.Username,
		"-d", conn.Database,
	}
}
