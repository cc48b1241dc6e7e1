package gisrestore

import (
	"errors"
	"fmt"
	"time"
)

// Format classifies the input dump file. The classification is derived
// purely from the file's first bytes and decides which external tool
// performs the import.
type Format int

const (
	// FormatUnknown means no detector matched. The restore falls back to
	// the binary dump path with a warning.
	FormatUnknown Format = iota

	// FormatDump is a PostgreSQL custom-format binary dump (pg_restore).
	FormatDump

	// FormatScript is a plain-text SQL script (psql -f).
	FormatScript

	// FormatGeoPackage is a SQLite-backed geospatial container (ogr2ogr).
	FormatGeoPackage
)

// String returns a human-readable string representation of the Format.
func (f Format) String() string {
	switch f {
	case FormatDump:
		return "pg_dump binary"
	case FormatScript:
		return "SQL script"
	case FormatGeoPackage:
		return "GeoPackage"
	case FormatUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// IsValid returns true if the Format is a defined value.
func (f Format) IsValid() bool {
	return f >= FormatUnknown && f <= FormatGeoPackage
}

// ConnectionConfig holds the resolved connection parameters for a run.
// The value is built once during CLI resolution and passed read-only into
// every component; nothing mutates it after construction.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
}

// Addr returns the host:port pair for log messages.
func (c ConnectionConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RestoreConfig contains all parameters needed for one restore run.
type RestoreConfig struct {
	// InputPath is the resolved absolute path of the dump file.
	InputPath string

	// Connection holds the target database connection parameters.
	Connection ConnectionConfig

	// ImportTable is the destination table for GeoPackage imports.
	ImportTable string

	// SkipPreflight disables the connectivity check before import.
	SkipPreflight bool

	// DetectOnly classifies the input file and stops before any
	// database work.
	DetectOnly bool

	// Timeout bounds the whole run. Zero means no timeout; external
	// tools then block the run until they exit.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the RestoreConfig has all required fields and valid
// values. It returns a multi-error if multiple validation failures occur.
func (c *RestoreConfig) Validate() error {
	var errs []error

	if c.InputPath == "" {
		errs = append(errs, fmt.Errorf("InputPath is required: %w", ErrInvalidConfig))
	}

	if c.Connection.Host == "" {
		errs = append(errs, fmt.Errorf("connection host is required: %w", ErrInvalidConfig))
	}

	if c.Connection.Port <= 0 || c.Connection.Port > 65535 {
		errs = append(errs, fmt.Errorf("connection port %d out of range: %w", c.Connection.Port, ErrInvalidConfig))
	}

	if c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	if c.ImportTable == "" {
		errs = append(errs, fmt.Errorf("import table name is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
