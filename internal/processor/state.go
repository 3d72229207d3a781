package processor

import "fmt"

// State is a conversion job's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateRendering
	StateFinalizing
	StateDone
	StateNoFiles
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateRendering:
		return "rendering"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateNoFiles:
		return "no-files"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions leave s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateNoFiles || s == StateFailed
}

// Active reports whether a job is running in s.
func (s State) Active() bool {
	return s == StateScanning || s == StateRendering || s == StateFinalizing
}

var transitions = map[State][]State{
	StateIdle:       {StateScanning},
	StateScanning:   {StateRendering, StateNoFiles, StateFailed},
	StateRendering:  {StateRendering, StateFinalizing, StateFailed},
	StateFinalizing: {StateDone, StateFailed},
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type machine struct {
	state   State
	updates chan<- Status
}

func (m *machine) enter(next State, st Status) {
	if !m.state.CanTransition(next) {
		panic(fmt.Sprintf("processor: invalid transition %s -> %s", m.state, next))
	}
	m.state = next
	st.State = next
	if m.updates != nil {
		m.updates <- st
	}
}
