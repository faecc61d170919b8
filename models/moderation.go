package models

import "time"

// ModerationStatus - состояние заявки на проверку чека.
type ModerationStatus string

const (
	ModerationOpen       ModerationStatus = "open"
	ModerationProcessing ModerationStatus = "processing"
	ModerationApproved   ModerationStatus = "approved"
	ModerationRejected   ModerationStatus = "rejected"
)

// Terminal сообщает, что заявка закрыта окончательно.
func (s ModerationStatus) Terminal() bool {
	return s == ModerationApproved || s == ModerationRejected
}

// MessageRef указывает на сообщение в чате.
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// ModerationRequest - чек, пересланный администратору.
// Message - сообщение у администратора с кнопками approve/reject.
type ModerationRequest struct {
	ID          string           `json:"id"`
	UserID      int64            `json:"user_id"`
	Selection   PendingSelection `json:"selection"`
	ProofFileID string           `json:"proof_file_id"`
	Caption     string           `json:"caption"`
	Message     MessageRef       `json:"message"`
	Status      ModerationStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}
