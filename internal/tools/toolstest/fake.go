// Package toolstest provides fake Locator and Runner implementations for
// exercising the restore pipeline without external processes.
package toolstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/gisrestore/internal/tools"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// FakeLocator resolves tool names from a fixed map.
type FakeLocator struct {
	// Paths maps tool name to a fake executable path.
	Paths map[string]string

	// Missing marks tools that should report ErrToolNotFound.
	Missing map[string]bool
}

// NewFakeLocator creates a FakeLocator resolving every known tool to
// /usr/bin/<name>.
func NewFakeLocator() *FakeLocator {
	return &FakeLocator{
		Paths: map[string]string{
			tools.PSQL:      "/usr/bin/psql",
			tools.PGRestore: "/usr/bin/pg_restore",
			tools.Ogr2Ogr:   "/usr/bin/ogr2ogr",
		},
		Missing: map[string]bool{},
	}
}

// Locate implements tools.Locator.
func (l *FakeLocator) Locate(name string) (string, error) {
	if l.Missing[name] {
		return "", fmt.Errorf("%q: %w", name, gisrestore.ErrToolNotFound)
	}
	if path, ok := l.Paths[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%q: %w", name, gisrestore.ErrToolNotFound)
}

// RunFunc decides the outcome of one fake invocation.
type RunFunc func(cmd tools.Command) (tools.Result, error)

// FakeRunner records every command and answers invocations through an
// optional OnRun callback. Without a callback, every run succeeds.
type FakeRunner struct {
	mu       sync.Mutex
	commands []tools.Command
	launched []tools.Command

	// OnRun, if set, decides each Run outcome.
	OnRun RunFunc

	// LaunchErr, if set, is returned from Launch.
	LaunchErr error
}

// NewFakeRunner creates a FakeRunner where every invocation succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Run implements tools.Runner.
func (r *FakeRunner) Run(_ context.Context, cmd tools.Command) (tools.Result, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.OnRun != nil {
		return r.OnRun(cmd)
	}
	return tools.Result{}, nil
}

// Launch implements tools.Runner.
func (r *FakeRunner) Launch(cmd tools.Command) error {
	r.mu.Lock()
	r.launched = append(r.launched, cmd)
	r.mu.Unlock()
	return r.LaunchErr
}

// Commands returns the recorded Run invocations in order.
func (r *FakeRunner) Commands() []tools.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tools.Command(nil), r.commands...)
}

// Launched returns the recorded Launch invocations in order.
func (r *FakeRunner) Launched() []tools.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tools.Command(nil), r.launched...)
}
