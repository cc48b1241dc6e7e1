package input

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

func TestResolveBesideExecutable_Found(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GisTPI"), []byte("PGDMP"), 0644))

	r := NewResolverAt(dir)
	path, err := r.ResolveBesideExecutable("GisTPI")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GisTPI"), path)
}

func TestResolveBesideExecutable_Missing(t *testing.T) {
	r := NewResolverAt(t.TempDir())
	_, err := r.ResolveBesideExecutable("GisTPI")
	assert.True(t, errors.Is(err, gisrestore.ErrInputNotFound), "expected ErrInputNotFound, got: %v", err)
}

func TestResolveBesideExecutable_ExactNameOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GisTPI.sql"), []byte("--"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gistpi"), []byte("--"), 0644))

	r := NewResolverAt(dir)
	_, err := r.ResolveBesideExecutable("GisTPI")
	assert.ErrorIs(t, err, gisrestore.ErrInputNotFound)
}

func TestResolveBesideExecutable_DirectoryIsNotAFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "GisTPI"), 0755))

	r := NewResolverAt(dir)
	_, err := r.ResolveBesideExecutable("GisTPI")
	assert.ErrorIs(t, err, gisrestore.ErrInputNotFound)
}

func TestResolveBesideExecutable_ExecutableLookupFails(t *testing.T) {
	r := &Resolver{executable: func() (string, error) {
		return "", errors.New("no executable")
	}}
	_, err := r.ResolveBesideExecutable("GisTPI")
	assert.ErrorIs(t, err, gisrestore.ErrInputNotFound)
}

func TestResolvePath_Found(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "backup.dump")
	require.NoError(t, os.WriteFile(file, []byte("PGDMP"), 0644))

	r := NewResolver()
	path, err := r.ResolvePath(file)
	require.NoError(t, err)
	assert.Equal(t, file, path)
}

func TestResolvePath_Missing(t *testing.T) {
	r := NewResolver()
	_, err := r.ResolvePath(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, gisrestore.ErrInputNotFound)
}
