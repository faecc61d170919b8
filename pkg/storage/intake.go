package storage

import (
	"sync"

	"gazet_go/models"
)

// IntakeStore - ячейка режима приёма файлов администратора.
type IntakeStore interface {
	ArmWeekly()
	ArmIssue(label string)
	// Disarm атомарно возвращает предыдущее состояние и сбрасывает ячейку.
	Disarm() models.IntakeState
	Current() models.IntakeState
	// Restore возвращает состояние обратно, только если ячейку никто не взвёл заново.
	Restore(s models.IntakeState) bool
}

// Intake - IntakeStore в памяти.
type Intake struct {
	mu    sync.Mutex
	state models.IntakeState
}

func NewIntake() *Intake {
	return &Intake{}
}

func (in *Intake) ArmWeekly() {
	in.mu.Lock()
	in.state = models.AwaitingWeekly()
	in.mu.Unlock()
}

func (in *Intake) ArmIssue(label string) {
	in.mu.Lock()
	in.state = models.AwaitingIssue(label)
	in.mu.Unlock()
}

func (in *Intake) Disarm() models.IntakeState {
	in.mu.Lock()
	defer in.mu.Unlock()
	prev := in.state
	in.state = models.IntakeState{}
	return prev
}

func (in *Intake) Current() models.IntakeState {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

func (in *Intake) Restore(s models.IntakeState) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state.Armed() {
		return false
	}
	in.state = s
	return true
}
