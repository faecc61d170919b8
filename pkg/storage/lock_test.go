package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLockFile проверяет, что второй процесс не может открыть каталог на запись.
func TestLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json.lock")
	release, err := LockFile(path)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if _, err := LockFile(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("ожидалась ErrLocked, получено %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := LockFile(path)
	if err != nil {
		t.Fatalf("после release блокировка должна освободиться: %v", err)
	}
	again()
}

// TestLockFile_Stale проверяет перехват файла, оставшегося от упавшего процесса.
func TestLockFile_Stale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json.lock")
	// PID за пределами pid_max
	if err := os.WriteFile(path, []byte("999999999"), 0o644); err != nil {
		t.Fatal(err)
	}
	release, err := LockFile(path)
	if err != nil {
		t.Fatalf("устаревшая блокировка не перехвачена: %v", err)
	}
	defer release()
}

// TestLockCatalog проверяет advisory-блокировку каталога в Postgres.
func TestLockCatalog(t *testing.T) {
	db, st := newCatalogTestDB(t)
	ctx := context.Background()

	release, err := db.LockCatalog(ctx)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if _, err := db.LockCatalog(ctx); !errors.Is(err, ErrLocked) {
		t.Fatalf("ожидалась ErrLocked, получено %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if st.locked {
		t.Fatalf("блокировка не снята")
	}
}
