package report

import (
	"fmt"
	"sync"
)

// State is the view state of a report client.
type State string

const (
	StateUploading      State = "UPLOADING"
	StateProcessing     State = "PROCESSING"
	StateShowingResults State = "SHOWING_RESULTS"
	StateShowingError   State = "SHOWING_ERROR"
)

var allowed = map[State][]State{
	StateUploading:      {StateProcessing},
	StateProcessing:     {StateShowingResults, StateShowingError},
	StateShowingResults: {StateUploading},
	StateShowingError:   {StateUploading},
}

// Machine tracks a State and rejects illegal transitions.
type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine starts in UPLOADING.
func NewMachine() *Machine {
	return &Machine{state: StateUploading}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Transition moves to next, or returns an error leaving the state unchanged.
func (m *Machine) Transition(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range allowed[m.state] {
		if s == next {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("report: illegal transition %s -> %s", m.state, next)
}

// Finish moves from PROCESSING to SHOWING_RESULTS, or to SHOWING_ERROR when
// err is not nil.
func (m *Machine) Finish(err error) error {
	if err != nil {
		return m.Transition(StateShowingError)
	}
	return m.Transition(StateShowingResults)
}
