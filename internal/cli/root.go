// Package cli defines the gisrestore command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gisrestore",
	Short: "Restore spatial dumps into a PostGIS database",
	Long: `gisrestore restores a single spatial-database dump into a PostGIS-enabled
PostgreSQL database. It sniffs the file header to pick the right tool
(pg_restore, psql or ogr2ogr), enables the PostGIS extensions first, and
runs the import with a fixed, safe flag set.

Exit Codes:
  0  - Success (minor tool warnings are tolerated)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connectivity preflight failed
  12 - Input dump file not found
  13 - SQL script import tool reported a non-zero exit
  14 - PostGIS extension files missing on the server`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host on the restore command, matching psql.
	rootCmd.PersistentFlags().Bool("help", false, "Help for gisrestore")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
