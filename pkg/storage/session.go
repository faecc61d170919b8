package storage

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/gotd/td/session"
)

// DBSessionStorage хранит и загружает MTProto-сессию бота из таблицы bot_session.
type DBSessionStorage struct {
	DB   *sql.DB
	Name string
}

// LoadSession загружает текст сессии из БД.
func (s *DBSessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	if s == nil || s.DB == nil {
		return nil, session.ErrNotFound
	}

	var data string
	err := s.DB.QueryRowContext(ctx, "SELECT data_json FROM bot_session WHERE name = $1", s.Name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		log.Printf("[DBSessionStorage] ошибка чтения сессии: %v", err)
		return nil, err
	}
	return []byte(data), nil
}

// StoreSession сохраняет текст сессии в БД.
func (s *DBSessionStorage) StoreSession(ctx context.Context, data []byte) error {
	if s == nil || s.DB == nil {
		return session.ErrNotFound
	}
	// Одна запись на бота, повторная запись обновляет её
	_, err := s.DB.ExecContext(
		ctx,
		"INSERT INTO bot_session (name, data_json) VALUES ($1, $2) "+
			"ON CONFLICT (name) DO UPDATE SET data_json = EXCLUDED.data_json, date_time = NOW()",
		s.Name,
		string(data),
	)
	if err != nil {
		log.Printf("[DBSessionStorage] ошибка сохранения сессии: %v", err)
		return err
	}
	return nil
}
