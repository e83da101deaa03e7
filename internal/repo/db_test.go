package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_SetsPragmas_AndSingleWriterPool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	db, err := OpenSQLite(path, WithBusyTimeout(750*time.Millisecond), WithLogLevel(logger.Silent))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	var (
		journalMode string
		syncVal     int
		fkOn        int
		busyMS      int
	)
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}
	if err := db.Raw("PRAGMA synchronous;").Row().Scan(&syncVal); err != nil {
		t.Fatalf("PRAGMA synchronous: %v", err)
	}
	// NORMAL == 1
	if syncVal != 1 {
		t.Fatalf("expected synchronous=1 (NORMAL), got %d", syncVal)
	}
	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fkOn != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fkOn)
	}
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busyMS != 750 {
		t.Fatalf("expected busy_timeout=750, got %d", busyMS)
	}

	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 1 {
		t.Fatalf("expected MaxOpenConnections=1, got %d", stats.MaxOpenConnections)
	}
}

func TestOpenSQLite_Options(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.db")
	db, err := OpenSQLite(path, WithMaxOpenConns(3), WithMaxOpenConns(0), WithTracing(true), WithLogLevel(logger.Silent))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	if got := sqlDB.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("non-positive override must be ignored; MaxOpenConnections=%d", got)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("traced handle should still execute: %v", err)
	}
}

func TestWithPragmas_AppendsToExistingQuery(t *testing.T) {
	got := withPragmas("file:x?mode=memory", 2*time.Second)
	if !strings.HasPrefix(got, "file:x?mode=memory&_pragma=") {
		t.Fatalf("expected pragmas appended with &: %q", got)
	}
	if !strings.Contains(got, "busy_timeout(2000)") || !strings.Contains(got, "foreign_keys(1)") {
		t.Fatalf("missing pragmas: %q", got)
	}
	if got := withPragmas("app.db", 0); !strings.HasPrefix(got, "app.db?_pragma=") {
		t.Fatalf("expected pragmas introduced with ?: %q", got)
	}
}

// Compile-time guard to ensure signature stability.
var _ func(string, ...Option) (*gorm.DB, error) = OpenSQLite
