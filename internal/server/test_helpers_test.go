package server

import (
	"testing"

	"github.com/solla-h/who-is-the-spy-sub000/internal/config"
	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

func newGameServer(seed int64) *Server {
	return newTestServer(config.Default(), seed)
}

// setupRoom creates a room and joins the given players in order. The first
// name becomes the host. Returns the room and a name-to-token map.
func setupRoom(t *testing.T, srv *Server, names ...string) (*Room, map[string]string) {
	t.Helper()
	settings := Settings{SpyCount: 1, MinPlayers: 3, MaxPlayers: 20}
	room := srv.store.CreateRoom("", settings)
	tokens := make(map[string]string, len(names))
	for _, name := range names {
		_, player, err := srv.store.AddPlayer(room.ID, name, false, nil)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		tokens[name] = player.Token
	}
	return room, tokens
}

func findSpy(t *testing.T, room *Room) *Player {
	t.Helper()
	for i := range room.Players {
		if room.Players[i].Role == game.RoleSpy {
			return &room.Players[i]
		}
	}
	t.Fatal("no spy assigned")
	return nil
}

func findCivilians(room *Room) []*Player {
	var out []*Player
	for i := range room.Players {
		if room.Players[i].Role == game.RoleCivilian {
			out = append(out, &room.Players[i])
		}
	}
	return out
}

// describeRound submits one description per alive player, in turn order.
func describeRound(t *testing.T, srv *Server, room *Room, text string) {
	t.Helper()
	alive := 0
	for _, player := range room.Players {
		if player.Alive {
			alive++
		}
	}
	for i := 0; i < alive; i++ {
		current, ok := game.CurrentPlayer(seats(room), room.CurrentTurn)
		if !ok {
			t.Fatal("no current player")
		}
		player, ok := room.findPlayer(current)
		if !ok {
			t.Fatalf("current player %d not in roster", current)
		}
		if _, err := srv.SubmitDescription(room.ID, player.Token, text); err != nil {
			t.Fatalf("description by %s failed: %v", player.Name, err)
		}
	}
}

func assertCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	if got := errorCode(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}
