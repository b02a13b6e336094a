package game

// Verdict is the result of a victory check after an elimination event.
type Verdict struct {
	Over   bool
	Winner Role
}

// CheckVictory inspects the surviving roster. Civilians win when every spy
// is eliminated; spies win on reaching parity with civilians (they do not
// need a majority). Otherwise the game continues.
func CheckVictory(seats []Seat, spyIDs []int) Verdict {
	spySet := make(map[int]struct{}, len(spyIDs))
	for _, id := range spyIDs {
		spySet[id] = struct{}{}
	}
	aliveSpies := 0
	aliveCivilians := 0
	for _, seat := range seats {
		if !seat.Alive {
			continue
		}
		if _, ok := spySet[seat.PlayerID]; ok {
			aliveSpies++
		} else {
			aliveCivilians++
		}
	}
	if aliveSpies == 0 {
		return Verdict{Over: true, Winner: RoleCivilian}
	}
	if aliveSpies >= aliveCivilians {
		return Verdict{Over: true, Winner: RoleSpy}
	}
	return Verdict{}
}
