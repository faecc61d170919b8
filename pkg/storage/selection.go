package storage

import (
	"sync"
	"time"

	"gazet_go/models"
)

// Selections - текущий выбор каждого пользователя. Не сохраняется между перезапусками.
type Selections interface {
	// Set безусловно заменяет выбор пользователя и возвращает новую запись.
	Set(userID int64, kind models.SelectionKind, label string) models.PendingSelection
	Get(userID int64) (models.PendingSelection, bool)
	Clear(userID int64)
}

// MemorySelections - реализация Selections в памяти процесса.
type MemorySelections struct {
	mu       sync.Mutex
	items    map[int64]models.PendingSelection
	revision uint64
	now      func() time.Time
}

func NewMemorySelections() *MemorySelections {
	return &MemorySelections{
		items: make(map[int64]models.PendingSelection),
		now:   time.Now,
	}
}

func (m *MemorySelections) Set(userID int64, kind models.SelectionKind, label string) models.PendingSelection {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revision++
	sel := models.PendingSelection{
		Kind:       kind,
		Label:      label,
		Revision:   m.revision,
		SelectedAt: m.now().UTC(),
	}
	m.items[userID] = sel
	return sel
}

func (m *MemorySelections) Get(userID int64) (models.PendingSelection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sel, ok := m.items[userID]
	return sel, ok
}

func (m *MemorySelections) Clear(userID int64) {
	m.mu.Lock()
	delete(m.items, userID)
	m.mu.Unlock()
}

// Len - число пользователей с активным выбором.
func (m *MemorySelections) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
