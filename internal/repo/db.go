// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver).
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Option tunes OpenSQLite.
type Option func(*openOptions)

type openOptions struct {
	maxOpenConns int
	busyTimeout  time.Duration
	tracing      bool
	logLevel     logger.LogLevel
}

// WithMaxOpenConns caps the pool. The default of 1 gives a single writer.
func WithMaxOpenConns(n int) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

// WithBusyTimeout sets how long a connection waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *openOptions) {
		if d >= 0 {
			o.busyTimeout = d
		}
	}
}

// WithTracing installs the gorm OpenTelemetry plugin.
func WithTracing(on bool) Option {
	return func(o *openOptions) { o.tracing = on }
}

// WithLogLevel sets the gorm logger level (default Warn).
func WithLogLevel(l logger.LogLevel) Option {
	return func(o *openOptions) { o.logLevel = l }
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
//
// PRAGMAs are per-connection, so they are passed in the DSN and applied by
// the driver to every pooled connection rather than executed once.
func OpenSQLite(path string, opts ...Option) (*gorm.DB, error) {
	o := openOptions{maxOpenConns: 1, busyTimeout: 5 * time.Second, logLevel: logger.Warn}
	for _, fn := range opts {
		fn(&o)
	}

	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(path, o.busyTimeout)), &gorm.Config{
		Logger:         logger.Default.LogMode(o.logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if o.tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("install gorm tracing: %w", err)
		}
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(o.maxOpenConns)
		sqlDB.SetMaxIdleConns(o.maxOpenConns)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

func withPragmas(path string, busy time.Duration) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join([]string{
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=foreign_keys(1)",
		fmt.Sprintf("_pragma=busy_timeout(%d)", busy.Milliseconds()),
	}, "&")
}
