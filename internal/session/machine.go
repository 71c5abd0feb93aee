// Package session coordinates the single shared session cursor: which
// superlative is live, whether its result is revealed, and whether the run
// is complete. Transition rules live in a pure core so they are testable
// without the store; persistence and broadcasting wrap around it.
package session

// State is the transition-relevant slice of the shared session document.
type State struct {
	Started   bool
	Index     int
	Revealed  bool
	Completed bool
}

// Transition identifies one admin-invoked state change.
type Transition int

const (
	Start Transition = iota
	Reveal
	Next
	Previous
	ResetResults
	Complete
	FullReset
)

// String returns the transition name for logs.
func (t Transition) String() string {
	switch t {
	case Start:
		return "start"
	case Reveal:
		return "reveal"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case ResetResults:
		return "reset_results"
	case Complete:
		return "complete"
	case FullReset:
		return "full_reset"
	}
	return "unknown"
}

// Apply runs one transition against s given the catalog size. The returned
// bool reports acceptance; a rejected transition returns s unchanged and is
// never an error. hasVotes gates Reveal (a result cannot be frozen from an
// empty ledger).
func Apply(s State, t Transition, questionCount int, hasVotes bool) (State, bool) {
	switch t {
	case Start:
		if s.Started && !s.Completed {
			return s, false
		}
		return State{Started: true}, true

	case Reveal:
		if !s.Started || s.Completed || s.Revealed || !hasVotes {
			return s, false
		}
		s.Revealed = true
		return s, true

	case Next:
		if !s.Started || s.Completed || s.Index+1 >= questionCount {
			return s, false
		}
		s.Index++
		s.Revealed = false
		return s, true

	case Previous:
		// Also exits the summary back into the last question.
		if !s.Started {
			return s, false
		}
		if s.Completed {
			if questionCount == 0 {
				return s, false
			}
			s.Completed = false
			s.Index = questionCount - 1
			s.Revealed = false
			return s, true
		}
		if s.Index == 0 {
			return s, false
		}
		s.Index--
		s.Revealed = false
		return s, true

	case ResetResults:
		if !s.Started || s.Completed || !s.Revealed {
			return s, false
		}
		s.Revealed = false
		return s, true

	case Complete:
		if !s.Started || s.Completed {
			return s, false
		}
		s.Completed = true
		s.Revealed = false
		return s, true

	case FullReset:
		return State{}, true
	}
	return s, false
}

// GoTo jumps directly to a valid index, re-entering the voting sub-state.
func GoTo(s State, index, questionCount int) (State, bool) {
	if !s.Started || index < 0 || index >= questionCount {
		return s, false
	}
	s.Completed = false
	s.Index = index
	s.Revealed = false
	return s, true
}
