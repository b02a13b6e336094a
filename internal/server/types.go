package server

import (
	"time"

	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

// Room is the authoritative in-memory record for one game instance.
type Room struct {
	ID           string
	DBID         uint
	JoinCode     string
	PasswordHash string
	Phase        game.Phase
	HostID       int
	Settings     Settings
	State        *game.State
	CivilianWord string
	SpyWord      string
	CurrentTurn  int
	Round        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Players      []Player
	Descriptions []DescriptionEntry
	Votes        []VoteEntry
}

type Settings struct {
	SpyCount   int
	MinPlayers int
	MaxPlayers int
}

type Player struct {
	ID        int
	DBID      uint
	Name      string
	Token     string
	Role      game.Role
	Alive     bool
	Online    bool
	JoinOrder int
	LastSeen  time.Time
	WordSeen  bool
	IsBot     bool
	Bot       *BotConfig
}

// BotConfig is the stored provider/persona blob for an automated player.
type BotConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Persona  string `json:"persona,omitempty"`
}

type DescriptionEntry struct {
	DBID      uint
	PlayerID  int
	Round     int
	Text      string
	CreatedAt time.Time
}

type VoteEntry struct {
	DBID      uint
	VoterID   int
	TargetID  int
	Round     int
	CreatedAt time.Time
}

type RoomSummary struct {
	ID       string
	JoinCode string
	Phase    game.Phase
	Players  int
}

// seats projects the roster into the turn sequencer's shape, preserving
// join order.
func seats(room *Room) []game.Seat {
	out := make([]game.Seat, 0, len(room.Players))
	for _, player := range room.Players {
		out = append(out, game.Seat{PlayerID: player.ID, Alive: player.Alive})
	}
	return out
}

// word returns the secret word for a player's own role.
func (r *Room) word(role game.Role) string {
	if role == game.RoleSpy {
		return r.SpyWord
	}
	return r.CivilianWord
}

func (r *Room) findPlayer(playerID int) (*Player, bool) {
	for i := range r.Players {
		if r.Players[i].ID == playerID {
			return &r.Players[i], true
		}
	}
	return nil, false
}

func (r *Room) findPlayerByToken(token string) (*Player, bool) {
	if token == "" {
		return nil, false
	}
	for i := range r.Players {
		if r.Players[i].Token == token {
			return &r.Players[i], true
		}
	}
	return nil, false
}

func (r *Room) hasVoted(playerID, round int) bool {
	for _, vote := range r.Votes {
		if vote.VoterID == playerID && vote.Round == round {
			return true
		}
	}
	return false
}

func (r *Room) hasDescribed(playerID, round int) bool {
	for _, entry := range r.Descriptions {
		if entry.PlayerID == playerID && entry.Round == round {
			return true
		}
	}
	return false
}

func (r *Room) votesForRound(round int) []game.Ballot {
	ballots := make([]game.Ballot, 0, len(r.Votes))
	for _, vote := range r.Votes {
		if vote.Round == round {
			ballots = append(ballots, game.Ballot{VoterID: vote.VoterID, TargetID: vote.TargetID})
		}
	}
	return ballots
}
