package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/solla-h/who-is-the-spy-sub000/internal/db"
	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

// restoreRoomByJoinCode rebuilds a live room from its database rows, so
// players can reconnect by token after a process restart. Runtime player
// ids become the database ids, which is what the persisted game-state blob
// references.
func (s *Server) restoreRoomByJoinCode(joinCode string) (*Room, error) {
	if s.db == nil {
		return nil, errRoomNotFound()
	}
	var record db.Room
	if err := s.db.Where("join_code = ?", joinCode).First(&record).Error; err != nil {
		return nil, errRoomNotFound()
	}
	if existing, ok := s.store.FindRoomByJoinCode(record.JoinCode); ok {
		return existing, nil
	}

	var playerRows []db.Player
	if err := s.db.Where("room_id = ?", record.ID).Order("join_order asc").Find(&playerRows).Error; err != nil {
		return nil, apiErr(CodeDatabaseError, "failed to load players")
	}

	phase := game.Phase(record.Phase)
	if !phase.Valid() {
		return nil, apiErr(CodeDatabaseError, "room row carries unknown phase "+record.Phase)
	}

	room := &Room{
		ID:           fmt.Sprintf("room-%d", record.ID),
		DBID:         record.ID,
		JoinCode:     record.JoinCode,
		PasswordHash: record.PasswordHash,
		Phase:        phase,
		HostID:       int(record.HostID),
		Settings: Settings{
			SpyCount:   record.SpyCount,
			MinPlayers: record.MinPlayers,
			MaxPlayers: record.MaxPlayers,
		},
		CivilianWord: derefWord(record.CivilianWord),
		SpyWord:      derefWord(record.SpyWord),
		CurrentTurn:  record.CurrentTurn,
		Round:        record.Round,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}

	if len(record.GameState) > 0 {
		state, err := game.DecodeState(record.GameState)
		if err != nil {
			return nil, apiErr(CodeDatabaseError, "stored game state is invalid: "+err.Error())
		}
		room.State = state
	}

	for _, row := range playerRows {
		player := Player{
			ID:        int(row.ID),
			DBID:      row.ID,
			Name:      row.Name,
			Token:     row.Token,
			Alive:     row.IsAlive,
			Online:    false,
			JoinOrder: row.JoinOrder,
			LastSeen:  row.LastSeen,
			IsBot:     row.IsBot,
			Bot:       decodeBotConfig(row.BotConfig),
		}
		if row.Role != nil {
			player.Role = game.Role(*row.Role)
		}
		room.Players = append(room.Players, player)
	}

	s.loadTranscript(room)

	if err := s.store.RestoreRoom(room); err != nil {
		return nil, err
	}
	log.Printf("room restored room_id=%s join_code=%s phase=%s players=%d", room.ID, room.JoinCode, room.Phase, len(room.Players))
	return room, nil
}

func (s *Server) loadTranscript(room *Room) {
	var descriptionRows []db.Description
	if err := s.db.Where("room_id = ?", room.DBID).Order("id asc").Find(&descriptionRows).Error; err == nil {
		for _, row := range descriptionRows {
			room.Descriptions = append(room.Descriptions, DescriptionEntry{
				DBID:      row.ID,
				PlayerID:  int(row.PlayerID),
				Round:     row.Round,
				Text:      row.Text,
				CreatedAt: row.CreatedAt,
			})
		}
	}
	var voteRows []db.Vote
	if err := s.db.Where("room_id = ?", room.DBID).Order("id asc").Find(&voteRows).Error; err == nil {
		for _, row := range voteRows {
			room.Votes = append(room.Votes, VoteEntry{
				DBID:      row.ID,
				VoterID:   int(row.VoterID),
				TargetID:  int(row.TargetID),
				Round:     row.Round,
				CreatedAt: row.CreatedAt,
			})
		}
	}
}

func derefWord(word *string) string {
	if word == nil {
		return ""
	}
	return *word
}

func decodeBotConfig(raw []byte) *BotConfig {
	if len(raw) == 0 {
		return nil
	}
	var bot BotConfig
	if err := json.Unmarshal(raw, &bot); err != nil {
		return nil
	}
	return &bot
}
