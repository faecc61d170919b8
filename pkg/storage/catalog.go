package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"gazet_go/models"
)

var (
	// ErrPersist - каталог не удалось записать в постоянное хранилище.
	ErrPersist = errors.New("catalog persist failed")
	// ErrInvalidEntry - пустая метка или пустая ссылка на файл.
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// CatalogPersister загружает и целиком перезаписывает каталог.
type CatalogPersister interface {
	LoadCatalog(ctx context.Context) (models.Catalog, error)
	SaveCatalog(ctx context.Context, c models.Catalog) error
}

// CatalogStore держит каталог в памяти и синхронно сохраняет каждое изменение.
// Состояние в памяти меняется только после успешной записи, поэтому при ошибке
// оно остаётся равным последнему сохранённому снимку.
type CatalogStore struct {
	mu        sync.RWMutex
	cur       models.Catalog
	persister CatalogPersister
	log       *log.Logger
}

func NewCatalogStore(p CatalogPersister, logger *log.Logger) *CatalogStore {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogStore{persister: p, log: logger}
}

// Load читает каталог из хранилища. Вызывается один раз при старте.
func (s *CatalogStore) Load(ctx context.Context) error {
	c, err := s.persister.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()
	s.log.Printf("загружен каталог: weekly=%t, выпусков в архиве %d", c.WeeklyFileID != nil, len(c.Issues))
	return nil
}

func (s *CatalogStore) Weekly() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.WeeklyFileID == nil || *s.cur.WeeklyFileID == "" {
		return "", false
	}
	return *s.cur.WeeklyFileID, true
}

func (s *CatalogStore) Issue(label string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.cur.IssueIndex(label)
	if i < 0 || s.cur.Issues[i].FileID == "" {
		return "", false
	}
	return s.cur.Issues[i].FileID, true
}

// IssueLabels возвращает метки архива, начиная с последней добавленной.
func (s *CatalogStore) IssueLabels(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.LabelsNewestFirst(limit)
}

// Snapshot возвращает копию текущего каталога.
func (s *CatalogStore) Snapshot() models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Clone()
}

func (s *CatalogStore) SetWeekly(ctx context.Context, fileID string) error {
	if strings.TrimSpace(fileID) == "" {
		return fmt.Errorf("%w: пустой файл", ErrInvalidEntry)
	}
	return s.mutate(ctx, func(c *models.Catalog) {
		c.WeeklyFileID = &fileID
	})
}

func (s *CatalogStore) AddIssue(ctx context.Context, label, fileID string) error {
	if strings.TrimSpace(label) == "" || strings.TrimSpace(fileID) == "" {
		return fmt.Errorf("%w: метка %q", ErrInvalidEntry, label)
	}
	return s.mutate(ctx, func(c *models.Catalog) {
		c.SetIssue(label, fileID)
	})
}

// mutate применяет fn к копии каталога, сохраняет копию целиком и только затем
// подменяет состояние в памяти. Блокировка держится на время записи.
func (s *CatalogStore) mutate(ctx context.Context, fn func(*models.Catalog)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.Clone()
	fn(&next)
	if err := s.persister.SaveCatalog(ctx, next); err != nil {
		s.log.Printf("[ERROR] запись каталога: %v", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.cur = next
	return nil
}
