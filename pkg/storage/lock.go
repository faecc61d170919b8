package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrLocked - каталог уже открыт на запись другим процессом.
var ErrLocked = errors.New("catalog is locked by another process")

// catalogLockKey - ключ pg_try_advisory_lock для каталога.
const catalogLockKey int64 = 0x67617a6574

// LockFile создаёт файл блокировки с PID владельца.
// Файл, оставшийся от завершившегося процесса, перехватывается.
func LockFile(path string) (release func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				os.Remove(path)
				return nil, werr
			}
			return func() error { return os.Remove(path) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		if pid, alive := lockOwner(path); alive {
			return nil, fmt.Errorf("%w: %s (pid %d)", ErrLocked, path, pid)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLocked, path)
}

func lockOwner(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, !errors.Is(err, os.ErrNotExist)
	}
	// пустой файл: владелец ещё не успел записать PID
	if strings.TrimSpace(string(data)) == "" {
		return 0, true
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	err = syscall.Kill(pid, 0)
	return pid, err == nil || errors.Is(err, syscall.EPERM)
}

// LockCatalog берёт advisory-блокировку каталога на отдельном соединении.
// Блокировка живёт, пока соединение не вернёт release.
func (db *DB) LockCatalog(ctx context.Context) (release func() error, err error) {
	conn, err := db.Conn.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var ok bool
	if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, catalogLockKey).Scan(&ok); err != nil {
		conn.Close()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("%w: advisory lock %d", ErrLocked, catalogLockKey)
	}
	return func() error {
		_, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, catalogLockKey)
		return errors.Join(err, conn.Close())
	}, nil
}
