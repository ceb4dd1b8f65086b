package waitlist

import (
	"fmt"

	"github.com/grahmind/careers-waitlist/internal/models"
)

// State is the lifecycle of a single waitlist submission.
//
//	idle ──► submitting ──► success
//	              │
//	              └──► idle (with an error message)
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

var validTransitions = map[State][]State{
	StateIdle:       {StateSubmitting},
	StateSubmitting: {StateSuccess, StateIdle},
	// success is terminal for a submission
}

// IsTransitionAllowed reports whether from → to is part of the submission flow.
func IsTransitionAllowed(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Submission tracks one attempt to join the waitlist.
type Submission struct {
	Email   string
	State   State
	Message string
	Record  *models.WaitlistRecord
}

func NewSubmission(email string) *Submission {
	return &Submission{Email: email, State: StateIdle}
}

func (s *Submission) transition(to State) error {
	if !IsTransitionAllowed(s.State, to) {
		return fmt.Errorf("submission cannot move from %s to %s", s.State, to)
	}
	s.State = to
	return nil
}
