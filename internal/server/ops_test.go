package server

import (
	"testing"

	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

func TestFullGameCivilianVictory(t *testing.T) {
	srv := newGameServer(1)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	room, err := srv.StartGame(room.ID, host)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if room.Phase != game.PhaseWordReveal {
		t.Fatalf("expected word-reveal, got %s", room.Phase)
	}
	if room.State == nil || len(room.State.SpyIDs) != 1 {
		t.Fatalf("expected one spy, got %#v", room.State)
	}
	if room.CivilianWord == "" || room.SpyWord == "" || room.CivilianWord == room.SpyWord {
		t.Fatalf("bad word pair %q/%q", room.CivilianWord, room.SpyWord)
	}
	for _, player := range room.Players {
		if player.Role != game.RoleSpy && player.Role != game.RoleCivilian {
			t.Fatalf("player %s has no role", player.Name)
		}
	}

	if _, err := srv.ConfirmWord(room.ID, host); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if room.Phase != game.PhaseDescription {
		t.Fatalf("expected description, got %s", room.Phase)
	}

	describeRound(t, srv, room, "something vague")
	if len(room.Descriptions) != 3 {
		t.Fatalf("expected 3 descriptions, got %d", len(room.Descriptions))
	}

	if _, err := srv.StartVoting(room.ID, host); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}

	spy := findSpy(t, room)
	civs := findCivilians(room)
	for _, civ := range civs {
		if _, err := srv.Vote(room.ID, civ.Token, spy.ID); err != nil {
			t.Fatalf("civilian vote failed: %v", err)
		}
	}
	if _, err := srv.Vote(room.ID, spy.Token, civs[0].ID); err != nil {
		t.Fatalf("spy vote failed: %v", err)
	}

	room, tally, err := srv.FinalizeVoting(room.ID, host)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if len(tally.Eliminated) != 1 || tally.Eliminated[0] != spy.ID {
		t.Fatalf("expected spy %d eliminated, got %v", spy.ID, tally.Eliminated)
	}
	if tally.MaxVotes != 2 {
		t.Fatalf("expected max 2 votes, got %d", tally.MaxVotes)
	}
	if room.Phase != game.PhaseGameOver {
		t.Fatalf("expected game-over, got %s", room.Phase)
	}
	if room.State.Winner != game.RoleCivilian {
		t.Fatalf("expected civilian winner, got %s", room.State.Winner)
	}
}

func TestSpyVictoryOnParity(t *testing.T) {
	srv := newGameServer(2)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := srv.ConfirmWord(room.ID, host); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	describeRound(t, srv, room, "hmm")
	if _, err := srv.StartVoting(room.ID, host); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}

	spy := findSpy(t, room)
	civs := findCivilians(room)
	// Both the spy and one civilian pile onto the other civilian.
	if _, err := srv.Vote(room.ID, spy.Token, civs[0].ID); err != nil {
		t.Fatalf("spy vote failed: %v", err)
	}
	if _, err := srv.Vote(room.ID, civs[1].Token, civs[0].ID); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := srv.Vote(room.ID, civs[0].Token, spy.ID); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	room, tally, err := srv.FinalizeVoting(room.ID, host)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if len(tally.Eliminated) != 1 || tally.Eliminated[0] != civs[0].ID {
		t.Fatalf("expected civilian %d eliminated, got %v", civs[0].ID, tally.Eliminated)
	}
	if room.Phase != game.PhaseGameOver {
		t.Fatalf("expected game-over, got %s", room.Phase)
	}
	if room.State.Winner != game.RoleSpy {
		t.Fatalf("expected spy winner, got %s", room.State.Winner)
	}
}

func TestTieEliminatesAllLeaders(t *testing.T) {
	srv := newGameServer(3)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo", "Dan")
	host := tokens["Ada"]

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := srv.ConfirmWord(room.ID, host); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	describeRound(t, srv, room, "hmm")
	if _, err := srv.StartVoting(room.ID, host); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}

	// Two pairs voting for each other: 2-2 tie eliminates both leaders.
	a, _ := room.findPlayer(room.Players[0].ID)
	b, _ := room.findPlayer(room.Players[1].ID)
	c, _ := room.findPlayer(room.Players[2].ID)
	d, _ := room.findPlayer(room.Players[3].ID)
	votes := []struct {
		voter  *Player
		target *Player
	}{
		{a, b}, {c, b}, {b, a}, {d, a},
	}
	for _, vote := range votes {
		if _, err := srv.Vote(room.ID, vote.voter.Token, vote.target.ID); err != nil {
			t.Fatalf("vote by %s failed: %v", vote.voter.Name, err)
		}
	}

	room, tally, err := srv.FinalizeVoting(room.ID, host)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if len(tally.Eliminated) != 2 {
		t.Fatalf("expected both leaders eliminated, got %v", tally.Eliminated)
	}
	for _, id := range tally.Eliminated {
		player, ok := room.findPlayer(id)
		if !ok || player.Alive {
			t.Fatalf("eliminated player %d still alive", id)
		}
	}
	// 2 of 4 gone with one spy ends the game either way: a dead spy is a
	// civilian win, a live one has parity.
	if room.Phase != game.PhaseGameOver {
		t.Fatalf("expected game-over, got %s", room.Phase)
	}
	spy := findSpy(t, room)
	wantWinner := game.RoleSpy
	if !spy.Alive {
		wantWinner = game.RoleCivilian
	}
	if room.State.Winner != wantWinner {
		t.Fatalf("expected %s winner, got %s", wantWinner, room.State.Winner)
	}
}

func TestContinueStartsNextRound(t *testing.T) {
	srv := newGameServer(4)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo", "Dan")
	host := tokens["Ada"]

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := srv.ConfirmWord(room.ID, host); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	describeRound(t, srv, room, "hmm")
	if _, err := srv.StartVoting(room.ID, host); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}

	// Everyone piles onto one civilian; 3 alive remain so the game continues.
	spy := findSpy(t, room)
	civs := findCivilians(room)
	victim := civs[0]
	for _, player := range room.Players {
		if player.ID == victim.ID {
			if _, err := srv.Vote(room.ID, player.Token, spy.ID); err != nil {
				t.Fatalf("vote failed: %v", err)
			}
			continue
		}
		if _, err := srv.Vote(room.ID, player.Token, victim.ID); err != nil {
			t.Fatalf("vote failed: %v", err)
		}
	}
	room, _, err := srv.FinalizeVoting(room.ID, host)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if room.Phase != game.PhaseResult {
		t.Fatalf("expected result, got %s", room.Phase)
	}

	room, err = srv.ContinueGame(room.ID, host)
	if err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if room.Phase != game.PhaseDescription {
		t.Fatalf("expected description, got %s", room.Phase)
	}
	if room.Round != 2 {
		t.Fatalf("expected round 2, got %d", room.Round)
	}
	if room.CurrentTurn != 0 {
		t.Fatalf("expected turn reset, got %d", room.CurrentTurn)
	}

	// The eliminated player never comes up in the new round's turn order.
	describeRound(t, srv, room, "round two")
	for _, entry := range room.Descriptions {
		if entry.Round == 2 && entry.PlayerID == victim.ID {
			t.Fatalf("eliminated player %d described in round 2", victim.ID)
		}
	}
}

func TestStartGameAuthorization(t *testing.T) {
	srv := newGameServer(5)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")

	_, err := srv.StartGame(room.ID, tokens["Bob"])
	assertCode(t, err, CodeNotAuthorized)

	_, err = srv.StartGame(room.ID, "no-such-token")
	assertCode(t, err, CodePlayerNotFound)

	if _, err := srv.StartGame(room.ID, tokens["Ada"]); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	_, err = srv.StartGame(room.ID, tokens["Ada"])
	assertCode(t, err, CodeInvalidPhase)

	// Host check comes before phase check: a non-host in the wrong phase
	// still sees NOT_AUTHORIZED.
	_, err = srv.StartGame(room.ID, tokens["Bob"])
	assertCode(t, err, CodeNotAuthorized)
}

func TestStartGameNeedsThreePlayers(t *testing.T) {
	srv := newGameServer(6)
	room, tokens := setupRoom(t, srv, "Ada", "Bob")
	_, err := srv.StartGame(room.ID, tokens["Ada"])
	assertCode(t, err, CodeInvalidAction)
}

func TestDescriptionTurnEnforcement(t *testing.T) {
	srv := newGameServer(7)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := srv.ConfirmWord(room.ID, host); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	current, _ := game.CurrentPlayer(seats(room), room.CurrentTurn)
	var offTurn *Player
	for i := range room.Players {
		if room.Players[i].ID != current {
			offTurn = &room.Players[i]
			break
		}
	}
	_, err := srv.SubmitDescription(room.ID, offTurn.Token, "jumping the queue")
	assertCode(t, err, CodeInvalidAction)

	due, _ := room.findPlayer(current)
	if _, err := srv.SubmitDescription(room.ID, due.Token, "on my turn"); err != nil {
		t.Fatalf("due player rejected: %v", err)
	}

	// Host skip moves the turn along without adding a description.
	before := len(room.Descriptions)
	turn := room.CurrentTurn
	if _, err := srv.SkipPlayer(room.ID, host); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if len(room.Descriptions) != before {
		t.Fatal("skip recorded a description")
	}
	if room.CurrentTurn == turn {
		t.Fatal("skip did not advance the turn")
	}
}

func TestVoteValidation(t *testing.T) {
	srv := newGameServer(8)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	// Voting before the voting phase is an INVALID_PHASE failure.
	_, err := srv.Vote(room.ID, tokens["Bob"], 1)
	assertCode(t, err, CodeInvalidPhase)

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := srv.ConfirmWord(room.ID, host); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	describeRound(t, srv, room, "hmm")
	if _, err := srv.StartVoting(room.ID, host); err != nil {
		t.Fatalf("start voting failed: %v", err)
	}

	ada, _ := room.findPlayer(room.Players[0].ID)
	bob, _ := room.findPlayer(room.Players[1].ID)

	_, err = srv.Vote(room.ID, ada.Token, ada.ID)
	assertCode(t, err, CodeInvalidAction)

	_, err = srv.Vote(room.ID, ada.Token, 9999)
	assertCode(t, err, CodePlayerNotFound)

	if _, err := srv.Vote(room.ID, ada.Token, bob.ID); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	_, err = srv.Vote(room.ID, ada.Token, bob.ID)
	assertCode(t, err, CodeInvalidAction)

	// Only the host may finalize.
	_, _, err = srv.FinalizeVoting(room.ID, bob.Token)
	assertCode(t, err, CodeNotAuthorized)
}

func TestRestartMidGame(t *testing.T) {
	srv := newGameServer(9)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := srv.ConfirmWord(room.ID, host); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	describeRound(t, srv, room, "hmm")

	room, err := srv.RestartGame(room.ID, host)
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if room.Phase != game.PhaseWaiting {
		t.Fatalf("expected waiting, got %s", room.Phase)
	}
	if room.State != nil || room.CivilianWord != "" || room.SpyWord != "" {
		t.Fatal("game secrets survived restart")
	}
	if len(room.Descriptions) != 0 || len(room.Votes) != 0 {
		t.Fatal("transcript survived restart")
	}
	if len(room.Players) != 3 {
		t.Fatalf("roster changed, got %d players", len(room.Players))
	}
	for _, player := range room.Players {
		if player.Role != "" || !player.Alive || player.WordSeen {
			t.Fatalf("player %s not reset: %#v", player.Name, player)
		}
	}
	// Tokens survive so everyone can play the next game.
	if _, ok := room.findPlayerByToken(tokens["Cleo"]); !ok {
		t.Fatal("token lost in restart")
	}

	// The room is immediately startable again.
	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("restart-then-start failed: %v", err)
	}
}

func TestRestartOnlyHost(t *testing.T) {
	srv := newGameServer(10)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	_, err := srv.RestartGame(room.ID, tokens["Bob"])
	assertCode(t, err, CodeNotAuthorized)
}

func TestUpdateSettings(t *testing.T) {
	srv := newGameServer(11)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	max := 5
	room, err := srv.UpdateSettings(room.ID, host, 2, &max)
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if room.Settings.SpyCount != 2 || room.Settings.MaxPlayers != 5 {
		t.Fatalf("settings not applied: %#v", room.Settings)
	}

	_, err = srv.UpdateSettings(room.ID, host, 0, nil)
	assertCode(t, err, CodeInvalidInput)

	_, err = srv.UpdateSettings(room.ID, tokens["Bob"], 1, nil)
	assertCode(t, err, CodeNotAuthorized)

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	_, err = srv.UpdateSettings(room.ID, host, 1, nil)
	assertCode(t, err, CodeInvalidPhase)
}

func TestKickPlayer(t *testing.T) {
	srv := newGameServer(12)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	bob, _ := room.findPlayerByToken(tokens["Bob"])
	bobID := bob.ID

	_, err := srv.KickPlayer(room.ID, host, room.HostID)
	assertCode(t, err, CodeInvalidAction)

	room, err = srv.KickPlayer(room.ID, host, bobID)
	if err != nil {
		t.Fatalf("kick failed: %v", err)
	}
	if len(room.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(room.Players))
	}
	for i, player := range room.Players {
		if player.JoinOrder != i {
			t.Fatalf("join order not contiguous: %#v", room.Players)
		}
	}
	if _, ok := room.findPlayer(bobID); ok {
		t.Fatal("kicked player still present")
	}
}

func TestConfirmWordSeen(t *testing.T) {
	srv := newGameServer(13)
	room, tokens := setupRoom(t, srv, "Ada", "Bob", "Cleo")
	host := tokens["Ada"]

	_, err := srv.ConfirmWordSeen(room.ID, tokens["Bob"])
	assertCode(t, err, CodeInvalidPhase)

	if _, err := srv.StartGame(room.ID, host); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	room, err = srv.ConfirmWordSeen(room.ID, tokens["Bob"])
	if err != nil {
		t.Fatalf("confirm-seen failed: %v", err)
	}
	bob, _ := room.findPlayerByToken(tokens["Bob"])
	if !bob.WordSeen {
		t.Fatal("word-seen flag not set")
	}
	if room.Phase != game.PhaseWordReveal {
		t.Fatalf("player confirmation moved the phase to %s", room.Phase)
	}

	// Host confirmation advances regardless of who has confirmed.
	room, err = srv.ConfirmWord(room.ID, host)
	if err != nil {
		t.Fatalf("host confirm failed: %v", err)
	}
	if room.Phase != game.PhaseDescription {
		t.Fatalf("expected description, got %s", room.Phase)
	}
}
