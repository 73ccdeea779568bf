// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controller

// Phase is the state of one question for the identified user
type Phase string

const (
	PhaseLoading    Phase = "LOADING"    // No question data yet
	PhaseOpen       Phase = "OPEN"       // Ballot shown, awaiting selection/submission
	PhaseSubmitting Phase = "SUBMITTING" // Vote in flight
	PhaseClosed     Phase = "CLOSED"     // User has voted, tally shown
)

func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from p to target is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLoading:    {PhaseOpen, PhaseClosed},
		PhaseOpen:       {PhaseOpen, PhaseSubmitting, PhaseClosed},
		PhaseSubmitting: {PhaseOpen, PhaseClosed},
		PhaseClosed:     {},
	}

	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}
