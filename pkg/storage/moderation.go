package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"gazet_go/models"
)

var (
	ErrRequestNotFound = errors.New("moderation request not found")
	ErrRequestResolved = errors.New("moderation request already resolved")
	ErrRequestBusy     = errors.New("moderation request is being processed")
)

// closedLimit - сколько закрытых заявок помнить для ответа «уже обработано».
const closedLimit = 1000

// ModerationLedger - заявки на проверку чеков, по сообщению у администратора.
// Заявка закрывается один раз: Claim переводит её в processing, Finish - в
// approved/rejected, Release возвращает в open, если решение не удалось исполнить.
// Закрытые заявки уходят из items в ограниченный список closed, старые вытесняются.
type ModerationLedger struct {
	mu          sync.Mutex
	items       map[models.MessageRef]*models.ModerationRequest
	closed      map[models.MessageRef]models.ModerationRequest
	closedOrder []models.MessageRef
	closedLimit int
	now         func() time.Time
}

func NewModerationLedger() *ModerationLedger {
	return &ModerationLedger{
		items:       make(map[models.MessageRef]*models.ModerationRequest),
		closed:      make(map[models.MessageRef]models.ModerationRequest),
		closedLimit: closedLimit,
		now:         time.Now,
	}
}

func (l *ModerationLedger) Add(req models.ModerationRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if req.Status == "" {
		req.Status = models.ModerationOpen
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = l.now().UTC()
	}
	l.items[req.Message] = &req
}

func (l *ModerationLedger) Get(ref models.MessageRef) (models.ModerationRequest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if req, ok := l.items[ref]; ok {
		return *req, true
	}
	req, ok := l.closed[ref]
	return req, ok
}

// Claim захватывает открытую заявку для обработки.
func (l *ModerationLedger) Claim(ref models.MessageRef) (models.ModerationRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if done, ok := l.closed[ref]; ok {
		return done, ErrRequestResolved
	}
	req, ok := l.items[ref]
	if !ok {
		return models.ModerationRequest{}, ErrRequestNotFound
	}
	if req.Status == models.ModerationProcessing {
		return *req, ErrRequestBusy
	}
	req.Status = models.ModerationProcessing
	return *req, nil
}

// Release возвращает захваченную заявку в open.
func (l *ModerationLedger) Release(ref models.MessageRef) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if req, ok := l.items[ref]; ok && req.Status == models.ModerationProcessing {
		req.Status = models.ModerationOpen
	}
}

// Finish закрывает захваченную заявку с итоговым статусом.
func (l *ModerationLedger) Finish(ref models.MessageRef, status models.ModerationStatus) (models.ModerationRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if done, ok := l.closed[ref]; ok {
		return done, ErrRequestResolved
	}
	req, ok := l.items[ref]
	if !ok {
		return models.ModerationRequest{}, ErrRequestNotFound
	}
	now := l.now().UTC()
	req.Status = status
	req.ResolvedAt = &now
	l.close(ref, *req)
	return *req, nil
}

// close переносит заявку в closed и вытесняет самые старые сверх лимита.
func (l *ModerationLedger) close(ref models.MessageRef, req models.ModerationRequest) {
	delete(l.items, ref)
	l.closed[ref] = req
	l.closedOrder = append(l.closedOrder, ref)
	for len(l.closedOrder) > l.closedLimit {
		delete(l.closed, l.closedOrder[0])
		l.closedOrder = l.closedOrder[1:]
	}
}

// Pending возвращает незакрытые заявки, старые первыми.
func (l *ModerationLedger) Pending() []models.ModerationRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.ModerationRequest, 0, len(l.items))
	for _, req := range l.items {
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
