package server

import (
	"reflect"
	"testing"

	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

func midGameRoom() Room {
	return Room{
		ID:           "room-1",
		JoinCode:     "ABC234",
		Phase:        game.PhaseVoting,
		HostID:       1,
		Settings:     Settings{SpyCount: 1, MinPlayers: 3, MaxPlayers: 20},
		State:        &game.State{SpyIDs: []int{2}, EliminatedIDs: []int{3}},
		CivilianWord: "coffee",
		SpyWord:      "tea",
		CurrentTurn:  2,
		Round:        3,
		Players: []Player{
			{ID: 1, Name: "Ada", Token: "t1", Role: game.RoleCivilian, Alive: true, WordSeen: true, JoinOrder: 0},
			{ID: 2, Name: "Bob", Token: "t2", Role: game.RoleSpy, Alive: true, WordSeen: true, JoinOrder: 1},
			{ID: 3, Name: "Cleo", Token: "t3", Role: game.RoleCivilian, Alive: false, WordSeen: true, JoinOrder: 2},
		},
		Descriptions: []DescriptionEntry{{PlayerID: 1, Round: 1, Text: "hot"}},
		Votes:        []VoteEntry{{VoterID: 1, TargetID: 3, Round: 1}},
	}
}

func TestGameResetClearsGameState(t *testing.T) {
	reset := computeGameReset(midGameRoom())

	if reset.Phase != game.PhaseWaiting {
		t.Fatalf("expected waiting, got %s", reset.Phase)
	}
	if reset.State != nil || reset.CivilianWord != "" || reset.SpyWord != "" {
		t.Fatal("secrets survived the reset")
	}
	if reset.CurrentTurn != 0 || reset.Round != 1 {
		t.Fatalf("turn/round not reset: %d/%d", reset.CurrentTurn, reset.Round)
	}
	if reset.Descriptions != nil || reset.Votes != nil {
		t.Fatal("transcript survived the reset")
	}
	for _, player := range reset.Players {
		if player.Role != "" || !player.Alive || player.WordSeen {
			t.Fatalf("player %s not reset: %#v", player.Name, player)
		}
	}
}

func TestGameResetPreservesRoster(t *testing.T) {
	original := midGameRoom()
	reset := computeGameReset(original)

	if len(reset.Players) != len(original.Players) {
		t.Fatalf("roster size changed: %d", len(reset.Players))
	}
	for i, player := range reset.Players {
		before := original.Players[i]
		if player.ID != before.ID || player.Name != before.Name || player.Token != before.Token || player.JoinOrder != before.JoinOrder {
			t.Fatalf("player identity changed: %#v vs %#v", player, before)
		}
	}
	if reset.HostID != original.HostID || reset.JoinCode != original.JoinCode {
		t.Fatal("room identity changed")
	}
	if reset.Settings != original.Settings {
		t.Fatalf("settings changed: %#v", reset.Settings)
	}
}

func TestGameResetIsIdempotent(t *testing.T) {
	once := computeGameReset(midGameRoom())
	twice := computeGameReset(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("reset not idempotent:\n%#v\n%#v", once, twice)
	}
}

func TestGameResetDoesNotMutateInput(t *testing.T) {
	original := midGameRoom()
	computeGameReset(original)
	if original.Phase != game.PhaseVoting || original.State == nil {
		t.Fatal("input room was mutated")
	}
	if original.Players[1].Role != game.RoleSpy {
		t.Fatal("input roster was mutated")
	}
}
