package event

// Type identifies the type of domain event
type Type string

const (
	// TypeRequested asks the next actionable approver to act
	TypeRequested Type = "approval.requested"
	// TypeCompleted signals that every line of a document was approved
	TypeCompleted Type = "approval.completed"
	// TypeRejected signals that a line rejected the document
	TypeRejected Type = "approval.rejected"
	// TypeRecalled signals that the drafter pulled an in-progress document back to draft
	TypeRecalled Type = "approval.recalled"
	// TypeReminder nudges an approver whose line has been pending too long
	TypeReminder Type = "approval.reminder"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeRequested, TypeCompleted, TypeRejected, TypeRecalled, TypeReminder:
		return true
	default:
		return false
	}
}
