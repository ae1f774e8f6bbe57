package flow

import (
	"sync"

	"capreg/internal/registration/models"
)

// Machine owns the state of one registration attempt. Events are applied under
// a lock, so operations completing concurrently resolve last-write-wins per field.
type Machine struct {
	mu    sync.RWMutex
	state models.State
}

// NewMachine returns a machine in the initial state.
func NewMachine() *Machine {
	return &Machine{state: models.InitialState()}
}

// NewMachineFrom returns a machine seeded with s. Used to resume a snapshot;
// service.New restarts the resend countdown when s.OTPResendTimer is above zero.
func NewMachineFrom(s models.State) *Machine {
	if !s.CurrentStep.IsValid() {
		s.CurrentStep = models.StepForm
	}
	return &Machine{state: s}
}

// Dispatch applies events in order as a single atomic transition and returns
// the resulting snapshot.
func (m *Machine) Dispatch(events ...Event) models.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		m.state = Reduce(m.state, e)
	}
	return m.state
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() models.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Reset returns the machine to its initial state.
func (m *Machine) Reset() models.State {
	return m.Dispatch(ResetRegistration{})
}
