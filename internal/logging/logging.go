// Package logging sets up the single process-wide logrus logger, per
// SPEC_FULL.md §7.1. Once the TUI takes the terminal's alternate screen
// buffer, nothing may write to stdout/stderr, so every log line after
// startup goes to a single append-only file under the user's config
// directory; the file is not rotated.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// New opens (creating if absent) "<dir>/rainfrog.log" and returns a logger
// that appends structured lines to it. dir is the config directory, not a
// fresh temp path, so a single log file accumulates across runs.
func New(dir string) (*logrus.Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	path := filepath.Join(dir, "rainfrog.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	return log, nil
}

// Fatal logs err at Error level (if log is non-nil) and also prints it to
// stderr before the caller calls os.Exit(1) — this is the one path allowed
// to touch stderr, since it only ever fires before the TUI starts
// (spec.md §6's "non-zero with a top-level error message").
func Fatal(log *logrus.Logger, err error) {
	if log != nil {
		log.WithError(err).Error("fatal startup error")
	}
	fmt.Fprintf(os.Stderr, "rainfrog: %v\n", err)
}
