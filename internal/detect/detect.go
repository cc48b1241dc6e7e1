// Package detect classifies a dump file by sniffing its first bytes.
//
// The classification decides which external tool performs the import:
// pg_restore for binary dumps, psql for SQL scripts, ogr2ogr for
// SQLite-backed GeoPackages. Detection is deterministic: the same bytes
// always yield the same format.
package detect

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// dumpMagic is the 5-byte marker at the start of every PostgreSQL
// custom-format dump.
var dumpMagic = []byte("PGDMP")

// sqliteMagic appears at offset 0 of every SQLite database file, including
// GeoPackages. Matched anywhere in the window so a detector change in the
// prefix handling cannot silently drop GeoPackage support.
var sqliteMagic = []byte("SQLite format 3")

// scriptMarkers are case-insensitive substrings that identify a plain SQL
// script within its first 100 characters.
var scriptMarkers = []string{"CREATE", "SET", "--"}

// File reads at most gisrestore.DetectWindowSize bytes from the file at
// path and classifies them. Any I/O error is swallowed and reported as
// FormatUnknown: detection fails open into the default restore path rather
// than aborting the run.
func File(path string) gisrestore.Format {
	f, err := os.Open(path)
	if err != nil {
		return gisrestore.FormatUnknown
	}
	defer f.Close()

	window := make([]byte, gisrestore.DetectWindowSize)
	n, err := io.ReadFull(f, window)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return gisrestore.FormatUnknown
	}

	return Classify(window[:n])
}

// Classify maps a header window to a Format. Pure function of the bytes.
func Classify(window []byte) gisrestore.Format {
	if bytes.HasPrefix(window, dumpMagic) {
		return gisrestore.FormatDump
	}
	if bytes.Contains(window, sqliteMagic) {
		return gisrestore.FormatGeoPackage
	}

	// Best-effort text probe over the first 100 characters. Invalid UTF-8
	// is irrelevant here since the markers are plain ASCII substrings.
	probe := window
	if len(probe) > 100 {
		probe = probe[:100]
	}
	text := strings.ToUpper(string(probe))
	for _, marker := range scriptMarkers {
		if strings.Contains(text, marker) {
			return gisrestore.FormatScript
		}
	}

	return gisrestore.FormatUnknown
}
