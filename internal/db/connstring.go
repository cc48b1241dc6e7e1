// Package db builds connection strings for the external tools and runs
// the connectivity preflight against the target database.
package db

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// BuildConnectionString renders a postgresql:// URI from the connection
// parameters, suitable for pgx.
func BuildConnectionString(config gisrestore.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	u.RawQuery = query.Encode()

	return u.String()
}

// BuildOGRDataSource renders the GDAL PostgreSQL data source string passed
// to ogr2ogr, e.g. "PG:host=localhost port=5433 dbname=geoserver ...".
// Values containing spaces or quotes are single-quoted per the GDAL
// connection string rules.
func BuildOGRDataSource(config gisrestore.ConnectionConfig) string {
	parts := []string{
		"host=" + ogrQuote(config.Host),
		fmt.Sprintf("port=%d", config.Port),
		"dbname=" + ogrQuote(config.Database),
		"user=" + ogrQuote(config.Username),
		"password=" + ogrQuote(config.Password),
	}
	return "PG:" + strings.Join(parts, " ")
}

func ogrQuote(v string) string {
	if v == "" || strings.ContainsAny(v, " '\"\\") {
		escaped := strings.ReplaceAll(v, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `'`, `\'`)
		return "'" + escaped + "'"
	}
	return v
}
