package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// Role is a player's secret faction once a game has started.
type Role string

const (
	RoleCivilian Role = "civilian"
	RoleSpy      Role = "spy"
)

const minPlayers = 3

// ValidateStart checks roster size against the spy-count setting. At least
// two civilians must remain after the spies are drawn.
func ValidateStart(playerCount, spyCount int) error {
	if playerCount < minPlayers {
		return fmt.Errorf("need at least %d players to start, have %d", minPlayers, playerCount)
	}
	if spyCount < 1 {
		return errors.New("spy count must be at least 1")
	}
	if spyCount >= playerCount-1 {
		return fmt.Errorf("%d spies leaves fewer than 2 civilians among %d players", spyCount, playerCount)
	}
	return nil
}

// AssignSpies draws spyCount spies from playerIDs with a Fisher-Yates
// shuffle, so every subset of that size is equally likely. The input slice is
// not modified.
func AssignSpies(rng *rand.Rand, playerIDs []int, spyCount int) []int {
	ids := make([]int, len(playerIDs))
	copy(ids, playerIDs)
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	if spyCount > len(ids) {
		spyCount = len(ids)
	}
	return ids[:spyCount]
}

// FirstTurn picks a uniform starting turn index for a roster of n players.
func FirstTurn(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}
