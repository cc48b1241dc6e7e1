package gisrestore

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := restorer.Restore(ctx, config)
//	if errors.Is(err, gisrestore.ErrExtensionMissing) {
//	    // PostGIS is not installed on the server
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInputNotFound indicates the input dump file could not be located.
	ErrInputNotFound = errors.New("input file not found")

	// ErrToolNotFound indicates a required external executable could not be
	// located on PATH or in any of the common install directories.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrExtensionMissing indicates the PostGIS extension files are not
	// installed on the database server. No import can succeed until the
	// user installs PostGIS and re-runs.
	ErrExtensionMissing = errors.New("postgis extension files missing")

	// ErrImportFailed indicates the SQL script import tool exited non-zero.
	ErrImportFailed = errors.New("import failed")

	// ErrConnectionFailed indicates the connectivity preflight failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInputNotFound):
		return ExitInputMissing
	case errors.Is(err, ErrExtensionMissing):
		return ExitExtensionMissing
	case errors.Is(err, ErrImportFailed):
		return ExitImportFailed
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
