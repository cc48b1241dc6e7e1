// Package services wires the restore pipeline together:
// detect → preflight → activate extensions → import.
package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/gisrestore/pkg/gisrestore"
)

// Detector classifies the input file. Matches detect.File.
type Detector func(path string) gisrestore.Format

// Preflight checks connectivity to the target database. Matches
// db.Preflight.
type Preflight func(ctx context.Context, config gisrestore.ConnectionConfig, logger gisrestore.Logger) error

// Importer dispatches a classified file to the matching external tool.
type Importer interface {
	Import(ctx context.Context, format gisrestore.Format, config gisrestore.RestoreConfig) error
}

// RestoreService executes one restore run. Strictly sequential: every
// stage completes before the next starts, and every external tool blocks
// the run until it exits.
type RestoreService struct {
	detect    Detector
	preflight Preflight
	importer  Importer
	logger    gisrestore.Logger
}

// NewRestoreService creates a RestoreService with all dependencies
// injected.
func NewRestoreService(detect Detector, preflight Preflight, importer Importer, logger gisrestore.Logger) *RestoreService {
	return &RestoreService{
		detect:    detect,
		preflight: preflight,
		importer:  importer,
		logger:    logger,
	}
}

// Restore runs the pipeline for the already-resolved input file in
// config.InputPath.
func (s *RestoreService) Restore(ctx context.Context, config gisrestore.RestoreConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	s.logger.Info("--- STARTING RESTORE ---")
	s.logger.Verbose("input file: %s", config.InputPath)
	s.logger.Verbose("target: %s database %q", config.Connection.Addr(), config.Connection.Database)

	format := s.detect(config.InputPath)
	s.logger.Info("file format: %s", format)

	if config.DetectOnly {
		// Machine-parseable result to stdout, like version output.
		fmt.Println(format)
		return nil
	}

	if config.SkipPreflight {
		s.logger.Verbose("connectivity preflight skipped")
	} else if err := s.preflight(ctx, config.Connection, s.logger); err != nil {
		return err
	}

	return s.importer.Import(ctx, format, config)
}
