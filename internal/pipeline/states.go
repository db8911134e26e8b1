package pipeline

// State tracks where a conversion request is in its lifecycle. States exist
// for logging and for making the recovery policy explicit; the flow is
// strictly forward.
type State string

const (
	StateIdle              State = "idle"
	StateSegmenting        State = "segmenting"
	StateBuilding          State = "building"
	StateEmitting          State = "emitting"
	StateValidating        State = "validating"
	StateRepairing         State = "repairing"
	StateFallbackRequested State = "fallback_requested"
	StateAccepted          State = "accepted"
	StateFailed            State = "failed"
)

// validTransitions is the allowed forward flow for one conversion request.
var validTransitions = map[State][]State{
	StateIdle:              {StateSegmenting, StateValidating, StateFailed},
	StateSegmenting:        {StateBuilding, StateFailed},
	StateBuilding:          {StateEmitting, StateFallbackRequested},
	StateEmitting:          {StateValidating, StateFallbackRequested},
	StateValidating:        {StateAccepted, StateRepairing, StateFallbackRequested, StateSegmenting},
	StateRepairing:         {StateAccepted},
	StateFallbackRequested: {StateAccepted},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
