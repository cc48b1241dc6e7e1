package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// pgpassPath returns the platform-appropriate .pgpass file path.
func pgpassPath() string {
	if custom := os.Getenv("PGPASSFILE"); custom != "" {
		return custom
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "postgresql", "pgpass.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgpass")
}

// lookupPgpass finds a password for the connection in the user's .pgpass
// file, following the PostgreSQL matching rules: the first entry whose
// host, port, database and user fields match (literally or via the "*"
// wildcard) wins.
func lookupPgpass(host string, port int, database, username string) (string, bool) {
	path := pgpassPath()
	if path == "" {
		return "", false
	}
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	portStr := strconv.Itoa(port)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitPgpassLine(line)
		if len(fields) != 5 {
			continue
		}

		if matchPgpass(fields[0], host) &&
			matchPgpass(fields[1], portStr) &&
			matchPgpass(fields[2], database) &&
			matchPgpass(fields[3], username) {
			return fields[4], true
		}
	}

	return "", false
}

func matchPgpass(field, value string) bool {
	return field == "*" || field == value
}

// splitPgpassLine splits a .pgpass entry on unescaped colons and resolves
// the \: and \\ escapes inside each field.
func splitPgpassLine(line string) []string {
	var fields []string
	var cur strings.Builder
	escaped := false

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
