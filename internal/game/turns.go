package game

// Seat is the slice of player state the turn sequencer needs, ordered by
// join order.
type Seat struct {
	PlayerID int
	Alive    bool
}

func aliveSeats(seats []Seat) []Seat {
	alive := make([]Seat, 0, len(seats))
	for _, seat := range seats {
		if seat.Alive {
			alive = append(alive, seat)
		}
	}
	return alive
}

// CurrentPlayer resolves the turn index to a player id among alive seats.
// The index is normalized modulo the alive count, which guards against stale
// indices left behind by eliminations. Returns false when nobody is alive.
func CurrentPlayer(seats []Seat, turn int) (int, bool) {
	alive := aliveSeats(seats)
	if len(alive) == 0 {
		return 0, false
	}
	if turn < 0 {
		turn = 0
	}
	return alive[turn%len(alive)].PlayerID, true
}

// IsPlayerTurn reports whether playerID is the player due at turn.
// Eliminated players are filtered out before indexing, so they can never be
// current.
func IsPlayerTurn(seats []Seat, turn, playerID int) bool {
	current, ok := CurrentPlayer(seats, turn)
	return ok && current == playerID
}

// NextTurn advances the turn index modulo the alive count. With nobody alive
// it degenerates to 0; the victory evaluator ends the game before that can
// matter.
func NextTurn(seats []Seat, turn int) int {
	alive := aliveSeats(seats)
	if len(alive) == 0 {
		return 0
	}
	if turn < 0 {
		turn = 0
	}
	return (turn + 1) % len(alive)
}
