package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerSubmit   Trigger = "SUBMIT"
	TriggerComplete Trigger = "COMPLETE"
	TriggerReject   Trigger = "REJECT"
	TriggerRecall   Trigger = "RECALL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
