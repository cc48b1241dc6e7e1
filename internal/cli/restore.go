package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/gisrestore/internal/config"
	"github.com/vvka-141/gisrestore/internal/db"
	"github.com/vvka-141/gisrestore/internal/detect"
	"github.com/vvka-141/gisrestore/internal/importer"
	"github.com/vvka-141/gisrestore/internal/input"
	"github.com/vvka-141/gisrestore/internal/logging"
	"github.com/vvka-141/gisrestore/internal/postgis"
	"github.com/vvka-141/gisrestore/internal/services"
	"github.com/vvka-141/gisrestore/internal/tools"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [file]",
	Short: "Restore a spatial dump into the target database",
	Long: `Restore sniffs the dump file's header, enables the PostGIS extensions on
the target database, and runs the matching external tool:

  pg_restore   for PostgreSQL binary dumps (PGDMP header)
  psql -f      for plain SQL scripts
  ogr2ogr      for SQLite-backed GeoPackages

Arguments:
  file    Optional path to the dump. Without it, a file named '` + gisrestore.DefaultInputName + `'
          next to the gisrestore executable is used.

Password:
  For security, the password is NOT accepted as a CLI flag. Use one of:
    1. $PGPASSWORD environment variable
    2. .pgpass file (PostgreSQL standard: chmod 600 ~/.pgpass)
    3. Interactive prompt (when run from a terminal)

Examples:
  # Restore the fixed-name dump next to the binary
  gisrestore restore

  # Restore an explicit file into another database
  gisrestore restore ./backups/parcels.dump -d cadastre

  # Classify the file without touching the database
  gisrestore restore --detect-only

  # GeoPackage import into a custom table
  gisrestore restore parcels.gpkg --table parcels_staging`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

type restoreFlagValues struct {
	conn          connFlagValues
	table         string
	timeout       time.Duration
	skipPreflight bool
	detectOnly    bool
}

var restoreFlags restoreFlagValues

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVarP(&restoreFlags.conn.host, "host", "h", "",
		"PostgreSQL server host\n"+
			"Precedence: --host > $PGHOST > gisrestore.yaml > "+gisrestore.DefaultHost)
	restoreCmd.Flags().IntVarP(&restoreFlags.conn.port, "port", "p", 0,
		fmt.Sprintf("PostgreSQL server port\n"+
			"Precedence: --port > $PGPORT > gisrestore.yaml > %d", gisrestore.DefaultPort))
	restoreCmd.Flags().StringVarP(&restoreFlags.conn.username, "username", "U", "",
		"PostgreSQL user (default: $PGUSER, gisrestore.yaml or "+gisrestore.DefaultUsername+")")
	restoreCmd.Flags().StringVarP(&restoreFlags.conn.database, "database", "d", "",
		"Target database name (default: $PGDATABASE, gisrestore.yaml or "+gisrestore.DefaultDatabase+")")
	restoreCmd.Flags().StringVar(&restoreFlags.conn.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: "+gisrestore.DefaultSSLMode+", or $PGSSLMODE)")

	restoreCmd.Flags().StringVar(&restoreFlags.table, "table", "",
		"Destination table for GeoPackage imports (default: "+gisrestore.DefaultImportTable+")")
	restoreCmd.Flags().DurationVar(&restoreFlags.timeout, "timeout", 0,
		"Abort the whole run after this duration (default 0: no timeout,\n"+
			"external tools may block the run indefinitely)\n"+
			"Examples: 30s, 5m, 1h30m")
	restoreCmd.Flags().BoolVar(&restoreFlags.skipPreflight, "skip-preflight", false,
		"Skip the database connectivity check before importing")
	restoreCmd.Flags().BoolVar(&restoreFlags.detectOnly, "detect-only", false,
		"Classify the dump file and exit without touching the database")
}

// buildRestoreConfig builds a RestoreConfig from CLI flags, environment
// and the optional gisrestore.yaml next to the executable. Extracted for
// testability.
func buildRestoreConfig(cmd *cobra.Command, args []string, verbose bool) (gisrestore.RestoreConfig, error) {
	_ = godotenv.Load()

	resolver := input.NewResolver()

	projectCfg, err := loadProjectConfig()
	if err != nil {
		return gisrestore.RestoreConfig{}, err
	}

	inputPath, err := resolveInput(resolver, args, projectCfg)
	if err != nil {
		return gisrestore.RestoreConfig{}, err
	}

	connConfig, err := resolveConnection(restoreFlags.conn, loadEnvVars(), projectCfg)
	if err != nil {
		return gisrestore.RestoreConfig{}, err
	}

	table := restoreFlags.table
	if table == "" && projectCfg != nil {
		table = projectCfg.Input.Table
	}
	if table == "" {
		table = gisrestore.DefaultImportTable
	}

	timeout := restoreFlags.timeout
	if projectCfg != nil && projectCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, parseErr := time.ParseDuration(projectCfg.Timeout)
		if parseErr != nil {
			return gisrestore.RestoreConfig{}, fmt.Errorf("invalid timeout in %s: %w", config.ConfigFileName, gisrestore.ErrInvalidConfig)
		}
		timeout = parsed
	}

	restoreConfig := gisrestore.RestoreConfig{
		InputPath:     inputPath,
		Connection:    connConfig,
		ImportTable:   table,
		SkipPreflight: restoreFlags.skipPreflight,
		DetectOnly:    restoreFlags.detectOnly,
		Timeout:       timeout,
		Verbose:       verbose,
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Configuration resolved:\n")
		fmt.Fprintf(os.Stderr, "  Input: %s\n", restoreConfig.InputPath)
		fmt.Fprintf(os.Stderr, "  Host: %s\n", connConfig.Host)
		fmt.Fprintf(os.Stderr, "  Port: %d\n", connConfig.Port)
		fmt.Fprintf(os.Stderr, "  User: %s\n", connConfig.Username)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", connConfig.Database)
		fmt.Fprintf(os.Stderr, "  SSL Mode: %s\n", connConfig.SSLMode)
		fmt.Fprintf(os.Stderr, "  Import Table: %s\n", table)
	}

	return restoreConfig, nil
}

// loadProjectConfig reads gisrestore.yaml from the executable's directory.
// A missing file is not an error; the tool ships with working defaults.
func loadProjectConfig() (*config.ProjectConfig, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, nil
	}

	projectCfg, err := config.Load(filepath.Dir(exe))
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// resolveInput picks the dump file: an explicit argument wins; otherwise
// the configured (or default) fixed name is looked up beside the binary.
func resolveInput(resolver *input.Resolver, args []string, projectCfg *config.ProjectConfig) (string, error) {
	if len(args) == 1 {
		return resolver.ResolvePath(args[0])
	}

	name := gisrestore.DefaultInputName
	if projectCfg != nil && projectCfg.Input.Name != "" {
		name = projectCfg.Input.Name
	}
	return resolver.ResolveBesideExecutable(name)
}

func runRestore(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	restoreConfig, err := buildRestoreConfig(cmd, args, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	locator := tools.NewPathLocator()
	runner := tools.NewExecRunner()
	recovery := postgis.NewInstallerRecovery(runner, logger)
	activator := postgis.NewActivator(locator, runner, recovery, logger)
	imp := importer.New(locator, runner, activator, logger)
	service := services.NewRestoreService(detect.File, db.Preflight, imp, logger)

	// Setup context with optional timeout and signal handling
	ctx := context.Background()
	var cancel context.CancelFunc
	if restoreConfig.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, restoreConfig.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling restore...")
		cancel()
	}()

	if err := service.Restore(ctx, restoreConfig); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	return nil
}
