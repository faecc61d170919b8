package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gazet_go/internal/config"
	"gazet_go/internal/logging"
	"gazet_go/internal/shop"
	"gazet_go/pkg/storage"
)

// catalogHandle - открытый каталог. db задан, только если используется Postgres.
type catalogHandle struct {
	store   *storage.CatalogStore
	db      *storage.DB
	release func() error
}

func (h *catalogHandle) Close() error {
	var err error
	if h.release != nil {
		err = h.release()
	}
	if h.db != nil {
		err = errors.Join(err, h.db.Close())
	}
	return err
}

// openCatalog выбирает хранилище каталога: Postgres при DATABASE_URL, иначе JSON-файл.
// С exclusive каталог блокируется на запись: бот и правки через CLI не работают одновременно.
func openCatalog(ctx context.Context, cfg *config.Config, exclusive bool) (*catalogHandle, error) {
	h := &catalogHandle{}
	var persister storage.CatalogPersister
	if cfg.UsePostgres() {
		db, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		h.db = db
		if err := db.EnsureSchema(ctx); err != nil {
			h.Close()
			return nil, err
		}
		if exclusive {
			if h.release, err = db.LockCatalog(ctx); err != nil {
				h.Close()
				return nil, lockError(err)
			}
		}
		persister = db
	} else {
		if exclusive {
			release, err := storage.LockFile(cfg.DBFile + ".lock")
			if err != nil {
				return nil, lockError(err)
			}
			h.release = release
		}
		persister = storage.NewJSONFile(cfg.DBFile)
	}

	logger := logging.New("CATALOG")
	h.store = storage.NewCatalogStore(persister, logger)
	if err := h.store.Load(ctx); err != nil {
		h.Close()
		return nil, fmt.Errorf("%w: %v", config.ErrStartup, err)
	}
	warnInvalidLabels(h.store, logger)
	return h, nil
}

func lockError(err error) error {
	if errors.Is(err, storage.ErrLocked) {
		return fmt.Errorf("%w (остановите бота или дождитесь другой команды)", err)
	}
	return err
}

// warnInvalidLabels сообщает о метках, которые не попадут в меню архива.
func warnInvalidLabels(store *storage.CatalogStore, logger *log.Logger) {
	for _, label := range store.IssueLabels(0) {
		if err := shop.ValidateLabel(label); err != nil {
			logger.Printf("[WARN] выпуск %q скрыт из архива: %v", label, err)
		}
	}
}
