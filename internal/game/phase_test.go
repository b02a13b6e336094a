package game

import "testing"

func TestPhaseTransitions(t *testing.T) {
	allowed := []struct{ from, to Phase }{
		{PhaseWaiting, PhaseWordReveal},
		{PhaseWordReveal, PhaseDescription},
		{PhaseDescription, PhaseVoting},
		{PhaseVoting, PhaseResult},
		{PhaseVoting, PhaseGameOver},
		{PhaseResult, PhaseDescription},
		{PhaseResult, PhaseGameOver},
		{PhaseGameOver, PhaseWaiting},
	}
	allowedSet := make(map[[2]Phase]bool)
	for _, tc := range allowed {
		allowedSet[[2]Phase{tc.from, tc.to}] = true
		if !tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("%s -> %s should be legal", tc.from, tc.to)
		}
	}
	phases := []Phase{PhaseWaiting, PhaseWordReveal, PhaseDescription, PhaseVoting, PhaseResult, PhaseGameOver}
	for _, from := range phases {
		for _, to := range phases {
			if allowedSet[[2]Phase{from, to}] {
				continue
			}
			if from.CanTransitionTo(to) {
				t.Fatalf("%s -> %s should be rejected", from, to)
			}
		}
	}
}

func TestPhaseValid(t *testing.T) {
	for _, p := range []Phase{PhaseWaiting, PhaseWordReveal, PhaseDescription, PhaseVoting, PhaseResult, PhaseGameOver} {
		if !p.Valid() {
			t.Fatalf("%s should be valid", p)
		}
	}
	if Phase("lobby").Valid() {
		t.Fatal("unknown phase should be invalid")
	}
}
