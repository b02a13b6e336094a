package game

// Phase is one of the six mutually exclusive room states.
type Phase string

const (
	PhaseWaiting     Phase = "waiting"
	PhaseWordReveal  Phase = "word-reveal"
	PhaseDescription Phase = "description"
	PhaseVoting      Phase = "voting"
	PhaseResult      Phase = "result"
	PhaseGameOver    Phase = "game-over"
)

func (p Phase) String() string {
	return string(p)
}

// Valid reports whether p is one of the defined phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseWaiting, PhaseWordReveal, PhaseDescription, PhaseVoting, PhaseResult, PhaseGameOver:
		return true
	}
	return false
}

var phaseTransitions = map[Phase][]Phase{
	PhaseWaiting:     {PhaseWordReveal},
	PhaseWordReveal:  {PhaseDescription},
	PhaseDescription: {PhaseVoting},
	PhaseVoting:      {PhaseResult, PhaseGameOver},
	PhaseResult:      {PhaseDescription, PhaseGameOver},
	PhaseGameOver:    {PhaseWaiting},
}

// CanTransitionTo reports whether moving from p to target is a legal
// transition. Restart is not covered here; it resets to waiting from any
// phase and is checked by the caller.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range phaseTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}
