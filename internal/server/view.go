package server

import (
	"time"

	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

// StateView is one caller's personalized projection of a room. It carries
// nobody's secrets but the caller's own: words and roles are redacted until
// the rules in buildStateView release them.
type StateView struct {
	RoomID       string            `json:"room_id"`
	JoinCode     string            `json:"join_code"`
	Phase        string            `json:"phase"`
	Round        int               `json:"round"`
	CurrentTurn  int               `json:"current_turn"`
	CurrentID    int               `json:"current_player_id,omitempty"`
	IsHost       bool              `json:"is_host"`
	You          SelfView          `json:"you"`
	Players      []PlayerView      `json:"players"`
	Descriptions []DescriptionView `json:"descriptions"`
	Votes        []VoteView        `json:"votes,omitempty"`
	Settings     SettingsView      `json:"settings"`
	Winner       string            `json:"winner,omitempty"`
	CivilianWord string            `json:"civilian_word,omitempty"`
	SpyWord      string            `json:"spy_word,omitempty"`
}

type SelfView struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Alive    bool   `json:"alive"`
	WordSeen bool   `json:"word_seen"`
	Role     string `json:"role,omitempty"`
	Word     string `json:"word,omitempty"`
}

type PlayerView struct {
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
	JoinOrder    int    `json:"join_order"`
	IsHost       bool   `json:"is_host"`
	IsBot        bool   `json:"is_bot"`
	Alive        bool   `json:"alive"`
	Online       bool   `json:"online"`
	HasVoted     bool   `json:"has_voted"`
	HasDescribed bool   `json:"has_described"`
	Role         string `json:"role,omitempty"`
}

type DescriptionView struct {
	PlayerID  int       `json:"player_id"`
	Round     int       `json:"round"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type VoteView struct {
	VoterID  int `json:"voter_id"`
	TargetID int `json:"target_id"`
	Round    int `json:"round"`
}

type SettingsView struct {
	SpyCount   int `json:"spy_count"`
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`
}

// buildStateView renders the room for one caller. Redaction rules:
//
//   - the caller's own role and word appear once the room has left waiting,
//     and only the word matching the caller's role;
//   - everyone's role, and both words, appear only at game-over;
//   - voter-to-target records appear only in result and game-over; during
//     active voting only the has_voted flag is visible.
func buildStateView(room *Room, caller *Player) StateView {
	view := StateView{
		RoomID:      room.ID,
		JoinCode:    room.JoinCode,
		Phase:       room.Phase.String(),
		Round:       room.Round,
		CurrentTurn: room.CurrentTurn,
		IsHost:      caller.ID == room.HostID,
		Settings: SettingsView{
			SpyCount:   room.Settings.SpyCount,
			MinPlayers: room.Settings.MinPlayers,
			MaxPlayers: room.Settings.MaxPlayers,
		},
		You: SelfView{
			PlayerID: caller.ID,
			Name:     caller.Name,
			Alive:    caller.Alive,
			WordSeen: caller.WordSeen,
		},
	}

	if room.Phase == game.PhaseDescription {
		if current, ok := game.CurrentPlayer(seats(room), room.CurrentTurn); ok {
			view.CurrentID = current
		}
	}

	started := room.Phase != game.PhaseWaiting
	gameOver := room.Phase == game.PhaseGameOver
	if started && caller.Role != "" {
		view.You.Role = string(caller.Role)
		view.You.Word = room.word(caller.Role)
	}

	view.Players = make([]PlayerView, 0, len(room.Players))
	for _, player := range room.Players {
		entry := PlayerView{
			PlayerID:     player.ID,
			Name:         player.Name,
			JoinOrder:    player.JoinOrder,
			IsHost:       player.ID == room.HostID,
			IsBot:        player.IsBot,
			Alive:        player.Alive,
			Online:       player.Online,
			HasVoted:     room.hasVoted(player.ID, room.Round),
			HasDescribed: room.hasDescribed(player.ID, room.Round),
		}
		if gameOver {
			entry.Role = string(player.Role)
		}
		view.Players = append(view.Players, entry)
	}

	view.Descriptions = make([]DescriptionView, 0, len(room.Descriptions))
	for _, entry := range room.Descriptions {
		view.Descriptions = append(view.Descriptions, DescriptionView{
			PlayerID:  entry.PlayerID,
			Round:     entry.Round,
			Text:      entry.Text,
			CreatedAt: entry.CreatedAt,
		})
	}

	if room.Phase == game.PhaseResult || gameOver {
		view.Votes = make([]VoteView, 0, len(room.Votes))
		for _, vote := range room.Votes {
			view.Votes = append(view.Votes, VoteView{
				VoterID:  vote.VoterID,
				TargetID: vote.TargetID,
				Round:    vote.Round,
			})
		}
	}

	if gameOver && room.State != nil {
		view.Winner = string(room.State.Winner)
		view.CivilianWord = room.CivilianWord
		view.SpyWord = room.SpyWord
	}
	return view
}
