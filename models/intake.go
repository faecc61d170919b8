package models

// IntakeMode - режим приёма следующего файла от администратора.
type IntakeMode int

const (
	IntakeNone IntakeMode = iota
	IntakeWeekly
	IntakeIssue
)

func (m IntakeMode) String() string {
	switch m {
	case IntakeWeekly:
		return "weekly"
	case IntakeIssue:
		return "issue"
	default:
		return "none"
	}
}

// IntakeState - единственная ячейка ожидания: None | AwaitingWeekly | AwaitingIssueLabel(label).
// Метка имеет смысл только в режиме IntakeIssue, поэтому значения создаются конструкторами.
type IntakeState struct {
	mode  IntakeMode
	label string
}

// AwaitingWeekly - ждём PDF текущей недели.
func AwaitingWeekly() IntakeState { return IntakeState{mode: IntakeWeekly} }

// AwaitingIssue - ждём PDF архивного выпуска с меткой label.
func AwaitingIssue(label string) IntakeState { return IntakeState{mode: IntakeIssue, label: label} }

func (s IntakeState) Mode() IntakeMode { return s.mode }
func (s IntakeState) Label() string    { return s.label }
func (s IntakeState) Armed() bool      { return s.mode != IntakeNone }
