// Package config loads the optional gisrestore.yaml project file.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig holds connection overrides from gisrestore.yaml.
// The password never lives in the config file; use $PGPASSWORD or .pgpass.
type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// InputConfig holds input overrides from gisrestore.yaml.
type InputConfig struct {
	// Name overrides the fixed dump file name looked up beside the binary.
	Name string `yaml:"name,omitempty"`

	// Table overrides the destination table for GeoPackage imports.
	Table string `yaml:"table,omitempty"`
}

// ProjectConfig is the parsed gisrestore.yaml.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Input      InputConfig      `yaml:"input"`
	Timeout    string           `yaml:"timeout"`
}

const ConfigFileName = "gisrestore.yaml"

// Load reads and parses ConfigFileName from the given directory.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
