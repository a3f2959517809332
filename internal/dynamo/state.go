package dynamo

import "fmt"

// Phase is the coarse position of a model in its lifecycle.
type Phase int

const (
	// NotReset: no state arrays have been allocated yet.
	NotReset Phase = iota
	// Ready: arrays are allocated and NaN-filled, no step taken.
	Ready
	// Stepping: at least one step has been taken.
	Stepping
)

func (p Phase) String() string {
	switch p {
	case NotReset:
		return "not reset"
	case Ready:
		return "ready"
	case Stepping:
		return "stepping"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// RunState tracks the timestep index of a run without encoding "unset" as NaN.
type RunState struct {
	phase  Phase
	index  int
	length int
}

func (s RunState) Phase() Phase { return s.phase }

// Index returns the current timestep index; ok is false before the first step.
func (s RunState) Index() (idx int, ok bool) {
	if s.phase != Stepping {
		return 0, false
	}
	return s.index, true
}

// Len is the run length fixed at the last reset.
func (s RunState) Len() int { return s.length }

// Done reports whether every timestep has been computed.
func (s RunState) Done() bool {
	return s.phase == Stepping && s.index == s.length-1
}

func (s *RunState) reset(n int) {
	*s = RunState{phase: Ready, length: n}
}

// advance moves to the next index and returns it.
func (s *RunState) advance() (int, error) {
	switch s.phase {
	case NotReset:
		return 0, fmt.Errorf("%w: call Reset before stepping", ErrModelState)
	case Ready:
		if s.length == 0 {
			return 0, fmt.Errorf("%w: no timesteps to run", ErrModelState)
		}
		s.phase = Stepping
		s.index = 0
	default:
		if s.index+1 >= s.length {
			return 0, fmt.Errorf("%w: run already complete after %d steps", ErrModelState, s.length)
		}
		s.index++
	}
	return s.index, nil
}
