package models

import "time"

// SelectionKind - что именно выбрал покупатель.
type SelectionKind string

const (
	SelectionWeekly SelectionKind = "weekly"
	SelectionIssue  SelectionKind = "issue"
)

// WeeklyLabel - постоянная подпись газеты текущей недели.
const WeeklyLabel = "Осы апта газеті"

// PendingSelection - выбор пользователя, ожидающий чека об оплате.
// Revision растёт при каждом новом выборе и позволяет заметить,
// что выбор был перезаписан после отправки чека.
type PendingSelection struct {
	Kind       SelectionKind `json:"kind"`
	Label      string        `json:"label"`
	Revision   uint64        `json:"revision"`
	SelectedAt time.Time     `json:"selected_at"`
}
