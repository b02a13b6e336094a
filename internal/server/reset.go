package server

import "github.com/solla-h/who-is-the-spy-sub000/internal/game"

// computeGameReset projects a room onto its "new game, same roster" state:
// back to waiting, words and game state cleared, every player alive again
// with no role. The projection is idempotent and valid from any phase.
// Descriptions and votes are dropped entirely.
func computeGameReset(room Room) Room {
	room.Phase = game.PhaseWaiting
	room.State = nil
	room.CivilianWord = ""
	room.SpyWord = ""
	room.CurrentTurn = 0
	room.Round = 1
	room.Descriptions = nil
	room.Votes = nil

	players := make([]Player, len(room.Players))
	copy(players, room.Players)
	for i := range players {
		players[i].Role = ""
		players[i].Alive = true
		players[i].WordSeen = false
	}
	room.Players = players
	return room
}

func applyGameReset(room *Room) {
	*room = computeGameReset(*room)
}
