package state

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rakshverma/sociochat/internal/bus"
)

// State is a chat session lifecycle state.
type State string

const (
	Disconnected       State = "DISCONNECTED"
	Connecting         State = "CONNECTING"
	Connected          State = "CONNECTED"
	ConversationActive State = "CONVERSATION_ACTIVE"
)

// validTransitions defines the allowed session transitions. Stopping is
// legal from every state, including Disconnected itself, so teardown is
// always an idempotent no-op. Selecting a new peer while a conversation is
// active is modeled as a self-transition.
var validTransitions = map[State][]State{
	Disconnected:       {Connecting, Disconnected},
	Connecting:         {Connected, Disconnected},
	Connected:          {ConversationActive, Disconnected},
	ConversationActive: {ConversationActive, Disconnected},
}

// Change is the payload published on every transition.
type Change struct {
	From State
	To   State
}

// Machine tracks and enforces session state transitions. A nil bus is
// allowed; transitions are then silent.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a machine starting in Disconnected.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{current: Disconnected, bus: b}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state, publishing a state_changed
// event on success. Returns an error when the transition is not allowed.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid session transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Topic: bus.TopicStateChanged,
			Data:  Change{From: from, To: to},
		})
	}
	return nil
}
