package session

import "fmt"

// State is the lifecycle stage of a Controller.
type State int

const (
	// StateLoading is the initial state and the state while due items are fetched.
	StateLoading State = iota + 1
	// StateReady means items are selected and the session can start.
	StateReady
	// StateLearning serves the primary queue.
	StateLearning
	// StateReviewing serves the items failed during the primary pass.
	StateReviewing
	// StateFinished is terminal until the next Load.
	StateFinished
	// StateTransition is reported while an answer is being recorded.
	StateTransition
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLearning:
		return "learning"
	case StateReviewing:
		return "reviewing"
	case StateFinished:
		return "finished"
	case StateTransition:
		return "transition"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by its wire name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Answering reports whether the state accepts answers.
func (s State) Answering() bool {
	return s == StateLearning || s == StateReviewing
}

// Stats counts graded attempts in the current session.
type Stats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}
