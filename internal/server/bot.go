package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

// Bot players consume the same operations as humans, authenticated by their
// own tokens. After every state change the controller calls scheduleBots,
// which arms a timer for any bot that is now due to act.

func botTimerKey(roomID string, playerID int, action string) string {
	return fmt.Sprintf("%s/%d/%s", roomID, playerID, action)
}

func (s *Server) scheduleBotAction(roomID string, playerID int, action string, run func()) {
	key := botTimerKey(roomID, playerID, action)
	delay := time.Duration(s.cfg.BotDelaySeconds) * time.Second
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if _, ok := s.timers[key]; ok {
		return
	}
	s.timers[key] = time.AfterFunc(delay, func() {
		s.timersMu.Lock()
		delete(s.timers, key)
		s.timersMu.Unlock()
		run()
	})
}

func (s *Server) cancelBotTimersFor(roomID string, playerID int) {
	prefix := fmt.Sprintf("%s/%d/", roomID, playerID)
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for key, timer := range s.timers {
		if strings.HasPrefix(key, prefix) {
			timer.Stop()
			delete(s.timers, key)
		}
	}
}

func (s *Server) scheduleBots(roomID string) {
	room, ok := s.store.GetRoom(roomID)
	if !ok {
		return
	}
	switch room.Phase {
	case game.PhaseWordReveal:
		for _, player := range room.Players {
			if !player.IsBot || player.WordSeen {
				continue
			}
			token := player.Token
			id := player.ID
			s.scheduleBotAction(roomID, id, "confirm", func() {
				if _, err := s.ConfirmWordSeen(roomID, token); err != nil {
					log.Printf("bot confirm failed room_id=%s player_id=%d err=%v", roomID, id, err)
				}
			})
		}
	case game.PhaseDescription:
		current, ok := game.CurrentPlayer(seats(room), room.CurrentTurn)
		if !ok {
			return
		}
		player, ok := room.findPlayer(current)
		if !ok || !player.IsBot {
			return
		}
		token := player.Token
		id := player.ID
		s.scheduleBotAction(roomID, id, "describe", func() {
			s.runBotDescription(roomID, id, token)
		})
	case game.PhaseVoting:
		for _, player := range room.Players {
			if !player.IsBot || !player.Alive || room.hasVoted(player.ID, room.Round) {
				continue
			}
			token := player.Token
			id := player.ID
			s.scheduleBotAction(roomID, id, "vote", func() {
				s.runBotVote(roomID, id, token)
			})
		}
	}
}

func (s *Server) runBotDescription(roomID string, playerID int, token string) {
	room, ok := s.store.GetRoom(roomID)
	if !ok {
		return
	}
	player, ok := room.findPlayer(playerID)
	if !ok || room.Phase != game.PhaseDescription {
		return
	}
	if !game.IsPlayerTurn(seats(room), room.CurrentTurn, playerID) {
		return
	}

	text := s.generateBotDescription(room, player)
	if _, err := s.SubmitDescription(roomID, token, text); err != nil {
		log.Printf("bot description failed room_id=%s player_id=%d err=%v", roomID, playerID, err)
	}
}

func (s *Server) runBotVote(roomID string, playerID int, token string) {
	room, ok := s.store.GetRoom(roomID)
	if !ok || room.Phase != game.PhaseVoting {
		return
	}
	player, ok := room.findPlayer(playerID)
	if !ok || !player.Alive || room.hasVoted(playerID, room.Round) {
		return
	}

	targetID := s.chooseBotTarget(room, player)
	if targetID == 0 {
		return
	}
	if _, err := s.Vote(roomID, token, targetID); err != nil {
		log.Printf("bot vote failed room_id=%s player_id=%d err=%v", roomID, playerID, err)
	}
}

var fallbackDescriptions = []string{
	"something you run into more often than you expect",
	"it has a place in most homes",
	"people tend to have strong opinions about it",
	"I associate it with a slower pace of day",
	"it can be simple or fancy depending on the occasion",
}

func (s *Server) generateBotDescription(room *Room, player *Player) string {
	word := room.word(player.Role)
	persona := ""
	model := ""
	if player.Bot != nil {
		persona = player.Bot.Persona
		model = player.Bot.Model
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	system := "You are playing a social deduction word game. You received a secret word. " +
		"Describe it in one short sentence, vaguely enough that others cannot guess it outright, " +
		"but concretely enough to sound like you know it. Never say the word itself or an obvious synonym."
	if persona != "" {
		system += " Stay in character: " + persona
	}
	user := "Your secret word: " + word + "\n" + transcriptPrompt(room) + "\nYour one-sentence description:"

	text, err := s.chatComplete(ctx, model, system, user)
	if err != nil {
		log.Printf("bot text generation failed room_id=%s player=%s err=%v", room.ID, player.Name, err)
		s.rngMu.Lock()
		text = fallbackDescriptions[s.rng.Intn(len(fallbackDescriptions))]
		s.rngMu.Unlock()
	}
	text = normalizeText(text)
	if cleaned, err := validateDescription(text); err == nil {
		return cleaned
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return fallbackDescriptions[s.rng.Intn(len(fallbackDescriptions))]
}

// chooseBotTarget asks the model for a suspect and falls back to a random
// alive player other than the bot itself.
func (s *Server) chooseBotTarget(room *Room, player *Player) int {
	candidates := make([]*Player, 0, len(room.Players))
	for i := range room.Players {
		other := &room.Players[i]
		if other.ID == player.ID || !other.Alive {
			continue
		}
		candidates = append(candidates, other)
	}
	if len(candidates) == 0 {
		return 0
	}

	model := ""
	if player.Bot != nil {
		model = player.Bot.Model
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		names = append(names, candidate.Name)
	}
	system := "You are playing a social deduction word game and must vote to eliminate the player " +
		"whose descriptions least match the group. Answer with exactly one name from the list, nothing else."
	user := transcriptPrompt(room) + "\nCandidates: " + strings.Join(names, ", ") + "\nYour vote:"

	if answer, err := s.chatComplete(ctx, model, system, user); err == nil {
		answer = strings.TrimSpace(answer)
		for _, candidate := range candidates {
			if strings.EqualFold(candidate.Name, answer) {
				return candidate.ID
			}
		}
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return candidates[s.rng.Intn(len(candidates))].ID
}

func transcriptPrompt(room *Room) string {
	var b strings.Builder
	b.WriteString("Descriptions so far:")
	if len(room.Descriptions) == 0 {
		b.WriteString(" (none)")
		return b.String()
	}
	for _, entry := range room.Descriptions {
		name := fmt.Sprintf("player-%d", entry.PlayerID)
		if player, ok := room.findPlayer(entry.PlayerID); ok {
			name = player.Name
		}
		b.WriteString(fmt.Sprintf("\n- %s: %s", name, entry.Text))
	}
	return b.String()
}
