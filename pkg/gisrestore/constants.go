package gisrestore

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Restore completed (possibly with tolerated warnings)
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitConnectionError  = 11 // Connectivity preflight failed
	ExitInputMissing     = 12 // Input dump file not found
	ExitImportFailed     = 13 // SQL script import tool reported a non-zero exit
	ExitExtensionMissing = 14 // PostGIS extension files are not installed on the server
)

const (
	// DefaultInputName is the fixed dump file name looked up next to the
	// gisrestore executable when no explicit path is given.
	DefaultInputName = "GisTPI"

	// DefaultImportTable is the destination table used when importing a
	// GeoPackage via ogr2ogr.
	DefaultImportTable = "GisTPI_import"

	// DetectWindowSize is the maximum number of bytes read from the input
	// file to classify its format.
	DetectWindowSize = 128

	// PostGISInstallDocsURL is opened in the default browser when the
	// PostGIS installer cannot be located on disk.
	PostGISInstallDocsURL = "https://www.postgis.net/documentation/getting_started/install_windows/"
)

// Default connection parameters matching the docker-compose PostGIS setup
// this tool ships alongside (host port 5433 maps to the container's 5432).
const (
	DefaultHost     = "localhost"
	DefaultPort     = 5433
	DefaultDatabase = "geoserver"
	DefaultUsername = "postgres"
	DefaultPassword = "postgres"
	DefaultSSLMode  = "disable"
)
