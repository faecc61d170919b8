package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB - доступ к Postgres: каталог и сессия бота.
type DB struct {
	Conn *sql.DB
}

func NewDB(conn *sql.DB) *DB {
	return &DB{Conn: conn}
}

// Open подключается к Postgres по DSN и проверяет соединение.
func Open(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return NewDB(conn), nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS catalog_weekly (
	id      INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	file_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_issues (
	position INT  NOT NULL,
	label    TEXT PRIMARY KEY,
	file_id  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bot_session (
	name      TEXT PRIMARY KEY,
	data_json TEXT NOT NULL,
	date_time TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema создаёт таблицы, если их ещё нет.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.Conn.ExecContext(ctx, schema)
	return err
}
