package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateDraft, false},
		{StateInProgress, false},
		{StateApproved, true},
		{StateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"draft", StateDraft, true},
		{"rejected", StateRejected, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("INVALID"))
}

func TestStateConfiguration_PermitIf(t *testing.T) {
	allow := false
	builder := NewBuilder()
	builder.Configure(StateDraft).
		PermitIf(TriggerSubmit, StateInProgress, func(ctx context.Context) bool { return allow })

	machine := builder.Build(StateDraft)

	err := machine.Fire(context.Background(), TriggerSubmit)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() with failing guard error = %v, want ErrGuardFailed", err)
	}

	allow = true
	if err := machine.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Errorf("Fire() with passing guard error = %v", err)
	}
	if machine.State() != StateInProgress {
		t.Errorf("State() = %v, want %v", machine.State(), StateInProgress)
	}
}

func TestDocumentMachine_Lifecycle(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
		wantTo  State
		wantErr bool
	}{
		{"submit from draft", StateDraft, TriggerSubmit, StateInProgress, false},
		{"complete from in progress", StateInProgress, TriggerComplete, StateApproved, false},
		{"reject from in progress", StateInProgress, TriggerReject, StateRejected, false},
		{"recall from in progress", StateInProgress, TriggerRecall, StateDraft, false},
		{"submit while in progress", StateInProgress, TriggerSubmit, "", true},
		{"complete from draft", StateDraft, TriggerComplete, "", true},
		{"recall from approved", StateApproved, TriggerRecall, "", true},
		{"submit from rejected", StateRejected, TriggerSubmit, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := NewDocumentMachine(tt.from)

			err := machine.Fire(context.Background(), tt.trigger)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
				}
				if machine.State() != tt.from {
					t.Errorf("failed Fire() moved state to %v", machine.State())
				}
				return
			}
			if err != nil {
				t.Fatalf("Fire() error = %v", err)
			}
			if machine.State() != tt.wantTo {
				t.Errorf("State() = %v, want %v", machine.State(), tt.wantTo)
			}
		})
	}
}

func TestDocumentMachine_TerminalStatesHaveNoTriggers(t *testing.T) {
	for _, state := range []State{StateApproved, StateRejected} {
		machine := NewDocumentMachine(state)
		if got := machine.PermittedTriggers(); len(got) != 0 {
			t.Errorf("PermittedTriggers() from %s = %v, want none", state, got)
		}
	}
}

func TestDocumentMachine_RecallRoundTrip(t *testing.T) {
	machine := NewDocumentMachine(StateDraft)
	ctx := context.Background()

	steps := []Trigger{TriggerSubmit, TriggerRecall, TriggerSubmit, TriggerComplete}
	for _, trigger := range steps {
		if err := machine.Fire(ctx, trigger); err != nil {
			t.Fatalf("Fire(%s) error = %v", trigger, err)
		}
	}

	if machine.State() != StateApproved {
		t.Errorf("State() = %v, want %v", machine.State(), StateApproved)
	}
}
