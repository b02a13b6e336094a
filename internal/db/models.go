package db

import (
	"time"

	"gorm.io/datatypes"
)

type Room struct {
	ID           uint   `gorm:"primaryKey"`
	JoinCode     string `gorm:"size:12;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128"`
	Phase        string `gorm:"size:32;not null"`
	HostID       uint   `gorm:"not null;default:0"`
	SpyCount     int    `gorm:"not null;default:1"`
	MinPlayers   int    `gorm:"not null;default:3"`
	MaxPlayers   int    `gorm:"not null;default:0"`
	CivilianWord *string
	SpyWord      *string
	GameState    datatypes.JSON `gorm:"type:jsonb"`
	CurrentTurn  int            `gorm:"not null;default:0"`
	Round        int            `gorm:"not null;default:1"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	Players      []Player
	Descriptions []Description
	Votes        []Vote
}

type Player struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null;uniqueIndex:idx_players_room_name"`
	Name      string         `gorm:"size:64;not null;uniqueIndex:idx_players_room_name"`
	Token     string         `gorm:"size:64;uniqueIndex;not null"`
	Role      *string        `gorm:"size:16"`
	IsAlive   bool           `gorm:"not null;default:true"`
	IsOnline  bool           `gorm:"not null;default:true"`
	JoinOrder int            `gorm:"not null"`
	LastSeen  time.Time      `gorm:"not null"`
	IsBot     bool           `gorm:"not null;default:false"`
	BotConfig datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

type Description struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null"`
	PlayerID  uint      `gorm:"index;not null"`
	Round     int       `gorm:"not null"`
	Text      string    `gorm:"size:280;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Vote struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null"`
	VoterID   uint      `gorm:"index;not null"`
	TargetID  uint      `gorm:"index;not null"`
	Round     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type WordPair struct {
	ID           uint      `gorm:"primaryKey"`
	CivilianWord string    `gorm:"size:64;not null;uniqueIndex:idx_word_pairs_words"`
	SpyWord      string    `gorm:"size:64;not null;uniqueIndex:idx_word_pairs_words"`
	CreatedAt    time.Time `gorm:"not null"`
}

type AICredential struct {
	ID        string     `gorm:"primaryKey;size:36"`
	Provider  string     `gorm:"size:32;not null"`
	Label     string     `gorm:"size:64;not null"`
	Secret    string     `gorm:"size:256;not null"`
	Model     string     `gorm:"size:64;not null"`
	Status    string     `gorm:"size:16;not null;default:active"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
	RevokedAt *time.Time
}
