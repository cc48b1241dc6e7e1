// Package tools locates and runs the external command-line programs the
// restore pipeline delegates to: psql, pg_restore and ogr2ogr.
package tools

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// Tool names dispatched by the importer.
const (
	PSQL      = "psql"
	PGRestore = "pg_restore"
	Ogr2Ogr   = "ogr2ogr"
)

// Locator resolves an external tool name to an executable path.
// Platform-specific search lists stay behind this interface so the
// dispatch logic never touches them.
type Locator interface {
	// Locate returns the absolute path of the named tool, or an error
	// wrapping gisrestore.ErrToolNotFound.
	Locate(name string) (string, error)
}

// windowsSearchDirs are glob patterns for common Windows install
// locations of the PostgreSQL and GDAL tool chains.
var windowsSearchDirs = []string{
	`C:\Program Files\PostgreSQL\*\bin`,
	`C:\Program Files (x86)\PostgreSQL\*\bin`,
	`C:\OSGeo4W\bin`,
	`C:\Program Files\QGIS*\bin`,
}

// unixSearchDirs cover the usual packaged and homebrew layouts where the
// client tools are installed without being linked onto PATH.
var unixSearchDirs = []string{
	"/usr/lib/postgresql/*/bin",
	"/usr/pgsql-*/bin",
	"/opt/homebrew/opt/libpq/bin",
	"/usr/local/opt/libpq/bin",
	"/Applications/Postgres.app/Contents/Versions/*/bin",
}

// PathLocator looks tools up on PATH first and falls back to globbing a
// per-platform list of common install directories, preferring the most
// recent version when several match.
type PathLocator struct {
	goos       string
	lookPath   func(name string) (string, error)
	glob       func(pattern string) ([]string, error)
	searchDirs []string
}

// NewPathLocator creates a PathLocator for the current platform.
func NewPathLocator() *PathLocator {
	return newPathLocator(runtime.GOOS)
}

func newPathLocator(goos string) *PathLocator {
	dirs := unixSearchDirs
	if goos == "windows" {
		dirs = windowsSearchDirs
	}
	return &PathLocator{
		goos:       goos,
		lookPath:   exec.LookPath,
		glob:       filepath.Glob,
		searchDirs: dirs,
	}
}

// Locate implements Locator.
func (l *PathLocator) Locate(name string) (string, error) {
	if path, err := l.lookPath(name); err == nil {
		return path, nil
	}

	binary := name
	if l.goos == "windows" {
		binary += ".exe"
	}

	for _, dir := range l.searchDirs {
		matches, err := l.glob(filepath.Join(dir, binary))
		if err != nil || len(matches) == 0 {
			continue
		}
		// Versioned directories sort lexicographically; descending order
		// puts the most recent install first.
		sort.Sort(sort.Reverse(sort.StringSlice(matches)))
		return matches[0], nil
	}

	return "", fmt.Errorf("%q not on PATH or in common install directories: %w", name, gisrestore.ErrToolNotFound)
}
