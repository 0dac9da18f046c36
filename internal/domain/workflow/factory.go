package workflow

// NewDocumentMachine creates a state machine configured for the document
// approval lifecycle. APPROVED and REJECTED are terminal.
func NewDocumentMachine(initialState State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StateDraft).
		Permit(TriggerSubmit, StateInProgress)

	builder.Configure(StateInProgress).
		Permit(TriggerComplete, StateApproved).
		Permit(TriggerReject, StateRejected).
		Permit(TriggerRecall, StateDraft)

	// APPROVED and REJECTED have no outgoing transitions

	return builder.Build(initialState)
}
