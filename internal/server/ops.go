package server

import (
	"log"

	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

// Every operation below is one read-modify-write against the store: resolve
// the caller, check authorization before phase, apply the delta, then write
// through to the database. Bots drive these same entry points with their own
// tokens.

func callerFromToken(room *Room, token string) (*Player, error) {
	player, ok := room.findPlayerByToken(token)
	if !ok {
		return nil, errPlayerNotFound()
	}
	return player, nil
}

func requireHost(room *Room, caller *Player) error {
	if room.HostID == 0 || caller.ID != room.HostID {
		return errNotHost()
	}
	return nil
}

func requirePhase(room *Room, phase game.Phase) error {
	if room.Phase != phase {
		return errInvalidPhase(room.Phase.String(), phase.String())
	}
	return nil
}

// advancePhase moves the room along the transition table. Operations check
// their precondition phase first, so a failure here means a controller bug
// rather than caller error, but it is still reported as INVALID_PHASE.
func advancePhase(room *Room, next game.Phase) error {
	if !room.Phase.CanTransitionTo(next) {
		return errInvalidPhase(room.Phase.String(), next.String())
	}
	room.Phase = next
	return nil
}

func (s *Server) randSpies(playerIDs []int, spyCount int) []int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return game.AssignSpies(s.rng, playerIDs, spyCount)
}

func (s *Server) randFirstTurn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return game.FirstTurn(s.rng, n)
}

// StartGame validates the roster, assigns the word pair and roles, draws the
// first turn and moves the room to word-reveal. Host only, waiting only.
func (s *Server) StartGame(roomID, token string) (*Room, error) {
	pair, pairErr := s.drawWordPair()
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseWaiting); err != nil {
			return err
		}
		if err := game.ValidateStart(len(room.Players), room.Settings.SpyCount); err != nil {
			return apiErr(CodeInvalidAction, err.Error())
		}
		if pairErr != nil {
			return pairErr
		}

		ids := make([]int, 0, len(room.Players))
		for _, player := range room.Players {
			ids = append(ids, player.ID)
		}
		spies := s.randSpies(ids, room.Settings.SpyCount)
		state := &game.State{SpyIDs: spies}
		for i := range room.Players {
			player := &room.Players[i]
			player.Alive = true
			player.WordSeen = false
			if state.IsSpy(player.ID) {
				player.Role = game.RoleSpy
			} else {
				player.Role = game.RoleCivilian
			}
		}
		room.State = state
		room.CivilianWord = pair.CivilianWord
		room.SpyWord = pair.SpyWord
		room.CurrentTurn = s.randFirstTurn(len(room.Players))
		room.Round = 1
		room.Descriptions = nil
		room.Votes = nil
		return advancePhase(room, game.PhaseWordReveal)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game started room_id=%s players=%d spies=%d", room.ID, len(room.Players), room.Settings.SpyCount)
	s.persistGameStart(room)
	s.scheduleBots(room.ID)
	return room, nil
}

// ConfirmWord is the host's pacing control: it moves word-reveal to
// description regardless of how many players have individually confirmed.
func (s *Server) ConfirmWord(roomID, token string) (*Room, error) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseWordReveal); err != nil {
			return err
		}
		return advancePhase(room, game.PhaseDescription)
	})
	if err != nil {
		return nil, err
	}
	s.persistPhase(room)
	s.scheduleBots(room.ID)
	return room, nil
}

// ConfirmWordSeen marks the caller's word-seen flag. It never gates the
// phase transition; the host decides when to move on.
func (s *Server) ConfirmWordSeen(roomID, token string) (*Room, error) {
	return s.store.UpdateRoom(roomID, func(room *Room) error {
		player, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseWordReveal); err != nil {
			return err
		}
		player.WordSeen = true
		return nil
	})
}

// SubmitDescription records the due player's utterance and advances the
// turn. Any player may call it, but only the currently-due one succeeds.
func (s *Server) SubmitDescription(roomID, token, text string) (*Room, error) {
	var entry DescriptionEntry
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseDescription); err != nil {
			return err
		}
		if !game.IsPlayerTurn(seats(room), room.CurrentTurn, caller.ID) {
			return apiErr(CodeInvalidAction, "it is not your turn to describe")
		}
		entry = DescriptionEntry{
			PlayerID:  caller.ID,
			Round:     room.Round,
			Text:      text,
			CreatedAt: timeNowUTC(),
		}
		room.Descriptions = append(room.Descriptions, entry)
		room.CurrentTurn = game.NextTurn(seats(room), room.CurrentTurn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistDescription(room, entry)
	s.persistPhase(room)
	s.scheduleBots(room.ID)
	return room, nil
}

// SkipPlayer advances the turn without a description. Host only.
func (s *Server) SkipPlayer(roomID, token string) (*Room, error) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseDescription); err != nil {
			return err
		}
		room.CurrentTurn = game.NextTurn(seats(room), room.CurrentTurn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistPhase(room)
	s.scheduleBots(room.ID)
	return room, nil
}

// StartVoting closes the description phase. Host only.
func (s *Server) StartVoting(roomID, token string) (*Room, error) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseDescription); err != nil {
			return err
		}
		return advancePhase(room, game.PhaseVoting)
	})
	if err != nil {
		return nil, err
	}
	s.persistPhase(room)
	s.scheduleBots(room.ID)
	return room, nil
}

// Vote records one ballot for the current round.
func (s *Server) Vote(roomID, token string, targetID int) (*Room, error) {
	var entry VoteEntry
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseVoting); err != nil {
			return err
		}
		target, ok := room.findPlayer(targetID)
		if !ok {
			return errPlayerNotFound()
		}
		check := game.VoteCheck{
			VoterID:      caller.ID,
			TargetID:     target.ID,
			VoterAlive:   caller.Alive,
			TargetAlive:  target.Alive,
			AlreadyVoted: room.hasVoted(caller.ID, room.Round),
		}
		if err := game.ValidateVote(check); err != nil {
			return apiErr(CodeInvalidAction, err.Error())
		}
		entry = VoteEntry{
			VoterID:   caller.ID,
			TargetID:  target.ID,
			Round:     room.Round,
			CreatedAt: timeNowUTC(),
		}
		room.Votes = append(room.Votes, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistVote(room, entry)
	return room, nil
}

// FinalizeVoting tallies the round, applies eliminations, evaluates victory
// and moves to result or game-over. Host only.
func (s *Server) FinalizeVoting(roomID, token string) (*Room, game.Tally, error) {
	var tally game.Tally
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseVoting); err != nil {
			return err
		}
		if room.State == nil {
			return apiErr(CodeInvalidAction, "no game in progress")
		}
		tally = game.TallyVotes(room.votesForRound(room.Round))
		for _, id := range tally.Eliminated {
			if player, ok := room.findPlayer(id); ok {
				player.Alive = false
			}
		}
		room.State.Eliminate(tally.Eliminated...)
		verdict := game.CheckVictory(seats(room), room.State.SpyIDs)
		if verdict.Over {
			room.State.Winner = verdict.Winner
			return advancePhase(room, game.PhaseGameOver)
		}
		return advancePhase(room, game.PhaseResult)
	})
	if err != nil {
		return nil, game.Tally{}, err
	}
	log.Printf("voting finalized room_id=%s round=%d eliminated=%v phase=%s", room.ID, room.Round, tally.Eliminated, room.Phase)
	s.persistEliminations(room, tally.Eliminated)
	s.persistPhase(room)
	return room, tally, nil
}

// ContinueGame starts the next description round after a result. Host only.
func (s *Server) ContinueGame(roomID, token string) (*Room, error) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseResult); err != nil {
			return err
		}
		room.Round++
		room.CurrentTurn = 0
		return advancePhase(room, game.PhaseDescription)
	})
	if err != nil {
		return nil, err
	}
	s.persistPhase(room)
	s.scheduleBots(room.ID)
	return room, nil
}

// RestartGame resets the room for replay with the same roster. Host only,
// legal from any phase.
func (s *Server) RestartGame(roomID, token string) (*Room, error) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		applyGameReset(room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game restarted room_id=%s players=%d", room.ID, len(room.Players))
	s.persistReset(room)
	return room, nil
}

// UpdateSettings mutates the spy-count setting while waiting. Host only.
func (s *Server) UpdateSettings(roomID, token string, spyCount int, maxPlayers *int) (*Room, error) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseWaiting); err != nil {
			return err
		}
		if spyCount < 1 {
			return apiErr(CodeInvalidInput, "spy count must be at least 1")
		}
		room.Settings.SpyCount = spyCount
		if maxPlayers != nil && *maxPlayers >= 0 {
			room.Settings.MaxPlayers = *maxPlayers
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.persistSettings(room)
	return room, nil
}

// KickPlayer removes a non-host participant from a waiting room. Host only.
func (s *Server) KickPlayer(roomID, token string, targetID int) (*Room, error) {
	var removed Player
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		if err := requireHost(room, caller); err != nil {
			return err
		}
		if err := requirePhase(room, game.PhaseWaiting); err != nil {
			return err
		}
		target, ok := room.findPlayer(targetID)
		if !ok {
			return errPlayerNotFound()
		}
		if target.ID == room.HostID {
			return apiErr(CodeInvalidAction, "the host cannot be kicked")
		}
		removed = *target
		players := make([]Player, 0, len(room.Players)-1)
		for _, player := range room.Players {
			if player.ID == targetID {
				continue
			}
			player.JoinOrder = len(players)
			players = append(players, player)
		}
		room.Players = players
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cancelBotTimersFor(room.ID, removed.ID)
	s.persistKick(room, removed)
	return room, nil
}

// TouchPlayer refreshes online/last-seen bookkeeping on a state read. It
// never mutates phase-relevant fields.
func (s *Server) TouchPlayer(roomID, token string) (*Room, *Player, error) {
	var caller *Player
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		player, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		player.Online = true
		player.LastSeen = timeNowUTC()
		caller = player
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.persistPresence(room, caller)
	return room, caller, nil
}
