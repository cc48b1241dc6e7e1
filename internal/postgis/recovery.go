package postgis

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"

	"github.com/vvka-141/gisrestore/internal/tools"
	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// stackBuilderGlob is the brute-force search pattern for the PostgreSQL
// Application Stack Builder on Windows, used when the install root cannot
// be extracted from the error text.
const stackBuilderGlob = `C:\Program Files\PostgreSQL\*\bin\stackbuilder.exe`

// InstallerRecovery locates and launches the graphical PostGIS installer,
// falling back to the install documentation in the default browser. The
// run terminates afterwards either way; the user installs PostGIS manually
// and re-runs the tool.
type InstallerRecovery struct {
	runner  tools.Runner
	logger  gisrestore.Logger
	glob    func(pattern string) ([]string, error)
	stat    func(path string) (os.FileInfo, error)
	openURL func(url string) error
}

// NewInstallerRecovery creates an InstallerRecovery.
func NewInstallerRecovery(runner tools.Runner, logger gisrestore.Logger) *InstallerRecovery {
	return &InstallerRecovery{
		runner:  runner,
		logger:  logger,
		glob:    filepath.Glob,
		stat:    os.Stat,
		openURL: browser.OpenURL,
	}
}

// Recover implements Recoverer.
func (r *InstallerRecovery) Recover(stderr string) {
	r.logger.Info("trying to locate the PostGIS installer...")

	installer := r.findStackBuilder(stderr)
	if installer == "" {
		r.logger.Error("could not find stackbuilder.exe")
		r.logger.Info("opening the PostGIS install guide in your browser...")
		if err := r.openURL(gisrestore.PostGISInstallDocsURL); err != nil {
			r.logger.Error("failed to open browser: %v", err)
			r.logger.Info("install PostGIS manually: %s", gisrestore.PostGISInstallDocsURL)
		}
		return
	}

	r.logger.Info("installer found at: %s", installer)
	r.logger.Info("launching Application Stack Builder...")
	r.logger.Info("ACTION REQUIRED:")
	r.logger.Info("  1. A window will open. Pick your PostgreSQL install from the dropdown.")
	r.logger.Info("  2. Click 'Next' until you reach the application list.")
	r.logger.Info("  3. Expand the 'Spatial Extensions' branch.")
	r.logger.Info("  4. Check the 'PostGIS Bundle' box.")
	r.logger.Info("  5. Finish the install, then run this tool again.")

	if err := r.runner.Launch(tools.Command{Path: installer}); err != nil {
		r.logger.Error("failed to launch the installer: %v", err)
	}
}

// findStackBuilder probes the install root extracted from the error text
// first, then falls back to globbing the default install location,
// preferring the most recent version.
func (r *InstallerRecovery) findStackBuilder(stderr string) string {
	if root := ExtractInstallRoot(stderr); root != "" {
		candidate := filepath.Join(root, "bin", "stackbuilder.exe")
		if _, err := r.stat(candidate); err == nil {
			return candidate
		}
	}

	matches, err := r.glob(stackBuilderGlob)
	if err != nil || len(matches) == 0 {
		return ""
	}
	// Glob results are sorted; the last entry is the newest version.
	return matches[len(matches)-1]
}

// ExtractInstallRoot pulls the PostgreSQL install root out of a
// missing-control-file error. psql reports the full control file path,
// e.g. "C:/Program Files/PostgreSQL/17/share/extension/postgis.control";
// the root is everything before "share". Returns "" when no path can be
// extracted.
func ExtractInstallRoot(stderr string) string {
	if !strings.Contains(stderr, "PostgreSQL") {
		return ""
	}

	start := strings.Index(stderr, "C:/")
	if start == -1 {
		start = strings.Index(stderr, `C:\`)
	}
	if start == -1 {
		return ""
	}

	end := strings.Index(stderr[start:], "share")
	if end == -1 {
		return ""
	}

	return strings.Trim(stderr[start:start+end], `/\ `)
}
