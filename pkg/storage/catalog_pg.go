package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gazet_go/models"

	"github.com/lib/pq"
)

// LoadCatalog читает газету недели и архив, упорядоченный по position.
func (db *DB) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	var c models.Catalog

	var weekly string
	err := db.Conn.QueryRowContext(ctx, `SELECT file_id FROM catalog_weekly WHERE id = 1`).Scan(&weekly)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return c, fmt.Errorf("catalog_weekly: %w", err)
	case weekly != "":
		c.WeeklyFileID = &weekly
	}

	rows, err := db.Conn.QueryContext(ctx, `SELECT label, file_id FROM catalog_issues ORDER BY position`)
	if err != nil {
		return c, fmt.Errorf("catalog_issues: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var is models.Issue
		if err := rows.Scan(&is.Label, &is.FileID); err != nil {
			return c, err
		}
		if is.FileID == "" {
			continue
		}
		c.Issues = append(c.Issues, is)
	}
	if err := rows.Err(); err != nil {
		return c, err
	}
	return c, nil
}

// SaveCatalog перезаписывает каталог целиком в одной транзакции.
func (db *DB) SaveCatalog(ctx context.Context, c models.Catalog) error {
	tx, err := db.Conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_weekly`); err != nil {
		return err
	}
	if c.WeeklyFileID != nil {
		if _, err := tx.ExecContext(ctx, `INSERT INTO catalog_weekly (id, file_id) VALUES (1, $1)`, *c.WeeklyFileID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_issues`); err != nil {
		return err
	}
	if len(c.Issues) > 0 {
		positions := make([]int64, len(c.Issues))
		labels := make([]string, len(c.Issues))
		files := make([]string, len(c.Issues))
		for i, is := range c.Issues {
			positions[i] = int64(i)
			labels[i] = is.Label
			files[i] = is.FileID
		}
		// Весь архив вставляется одним запросом через массивы
		_, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_issues (position, label, file_id)
			 SELECT * FROM unnest($1::int[], $2::text[], $3::text[])`,
			pq.Array(positions), pq.Array(labels), pq.Array(files),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
