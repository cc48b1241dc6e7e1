// Package input locates the dump file a restore run operates on.
package input

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// Resolver locates the input dump file for a run.
type Resolver struct {
	// executable returns the path of the running binary. Overridable in
	// tests; defaults to os.Executable.
	executable func() (string, error)
}

// NewResolver creates a Resolver using the running executable's location.
func NewResolver() *Resolver {
	return &Resolver{executable: os.Executable}
}

// NewResolverAt creates a Resolver that treats dir as the executable's
// directory. Used by tests.
func NewResolverAt(dir string) *Resolver {
	return &Resolver{executable: func() (string, error) {
		return filepath.Join(dir, "gisrestore"), nil
	}}
}

// ResolveBesideExecutable returns the absolute path of a regular file with
// the given name in the same directory as the running binary. There is no
// search path and no globbing: the name must match exactly.
func (r *Resolver) ResolveBesideExecutable(name string) (string, error) {
	exe, err := r.executable()
	if err != nil {
		return "", fmt.Errorf("cannot determine executable location: %w", gisrestore.ErrInputNotFound)
	}

	path := filepath.Join(filepath.Dir(exe), name)
	return statRegular(path, name)
}

// ResolvePath validates an explicitly supplied input path and returns it
// in absolute form.
func (r *Resolver) ResolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid input path %q: %w", path, gisrestore.ErrInputNotFound)
	}
	return statRegular(abs, path)
}

func statRegular(path, display string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%q: %w", display, gisrestore.ErrInputNotFound)
	}
	return path, nil
}
