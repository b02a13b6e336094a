package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/solla-h/who-is-the-spy-sub000/internal/db"
	"github.com/solla-h/who-is-the-spy-sub000/internal/game"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// The in-memory store is the runtime authority; these write-throughs keep
// Postgres in sync so rooms survive a process restart. Failures are logged
// and do not fail the operation that triggered them.

func (s *Server) persistRoom(room *Room) {
	if s.db == nil {
		return
	}
	record := db.Room{
		JoinCode:     room.JoinCode,
		PasswordHash: room.PasswordHash,
		Phase:        room.Phase.String(),
		SpyCount:     room.Settings.SpyCount,
		MinPlayers:   room.Settings.MinPlayers,
		MaxPlayers:   room.Settings.MaxPlayers,
		CurrentTurn:  room.CurrentTurn,
		Round:        room.Round,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		log.Printf("persist room failed room_id=%s err=%v", room.ID, err)
		return
	}
	room.DBID = record.ID
	newID := fmt.Sprintf("room-%d", record.ID)
	if room.ID != newID {
		s.store.UpdateRoomID(room, newID)
	}
}

func (s *Server) ensureRoomDBID(room *Room) bool {
	if s.db == nil {
		return false
	}
	if room.DBID != 0 {
		return true
	}
	var record db.Room
	if err := s.db.Where("join_code = ?", room.JoinCode).First(&record).Error; err != nil {
		return false
	}
	room.DBID = record.ID
	return true
}

func (s *Server) persistPlayer(room *Room, player *Player) {
	if s.db == nil || player.DBID != 0 {
		return
	}
	if !s.ensureRoomDBID(room) {
		return
	}
	record := db.Player{
		RoomID:    room.DBID,
		Name:      player.Name,
		Token:     player.Token,
		Role:      dbRole(player.Role),
		IsAlive:   player.Alive,
		IsOnline:  player.Online,
		JoinOrder: player.JoinOrder,
		LastSeen:  player.LastSeen,
		IsBot:     player.IsBot,
		BotConfig: encodeBotConfig(player.Bot),
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			var existing db.Player
			if lookupErr := s.db.Where("room_id = ? AND name = ?", room.DBID, player.Name).First(&existing).Error; lookupErr == nil {
				player.DBID = existing.ID
				return
			}
		}
		log.Printf("persist player failed room_id=%s player=%s err=%v", room.ID, player.Name, err)
		return
	}
	player.DBID = record.ID
	if room.HostID == player.ID {
		s.persistHost(room)
	}
}

func (s *Server) persistHost(room *Room) {
	if s.db == nil || !s.ensureRoomDBID(room) {
		return
	}
	host, ok := room.findPlayer(room.HostID)
	if !ok || host.DBID == 0 {
		return
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Update("host_id", host.DBID).Error; err != nil {
		log.Printf("persist host failed room_id=%s err=%v", room.ID, err)
	}
}

// persistPhase pushes every phase-relevant room field in one update.
func (s *Server) persistPhase(room *Room) {
	if s.db == nil || !s.ensureRoomDBID(room) {
		return
	}
	updates := map[string]any{
		"phase":         room.Phase.String(),
		"current_turn":  room.CurrentTurn,
		"round":         room.Round,
		"civilian_word": nullableWord(room.CivilianWord),
		"spy_word":      nullableWord(room.SpyWord),
		"game_state":    encodeRoomState(room),
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(updates).Error; err != nil {
		log.Printf("persist phase failed room_id=%s err=%v", room.ID, err)
	}
}

func (s *Server) persistGameStart(room *Room) {
	if s.db == nil {
		return
	}
	s.persistPhase(room)
	for i := range room.Players {
		player := &room.Players[i]
		if player.DBID == 0 {
			s.persistPlayer(room, player)
		}
		if player.DBID == 0 {
			continue
		}
		updates := map[string]any{
			"role":     dbRole(player.Role),
			"is_alive": player.Alive,
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Updates(updates).Error; err != nil {
			log.Printf("persist role failed room_id=%s player=%s err=%v", room.ID, player.Name, err)
		}
	}
}

func (s *Server) persistDescription(room *Room, entry DescriptionEntry) {
	if s.db == nil || !s.ensureRoomDBID(room) {
		return
	}
	player, ok := room.findPlayer(entry.PlayerID)
	if !ok || player.DBID == 0 {
		return
	}
	record := db.Description{
		RoomID:   room.DBID,
		PlayerID: player.DBID,
		Round:    entry.Round,
		Text:     entry.Text,
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("persist description failed room_id=%s err=%v", room.ID, err)
	}
}

func (s *Server) persistVote(room *Room, entry VoteEntry) {
	if s.db == nil || !s.ensureRoomDBID(room) {
		return
	}
	voter, ok := room.findPlayer(entry.VoterID)
	if !ok || voter.DBID == 0 {
		return
	}
	target, ok := room.findPlayer(entry.TargetID)
	if !ok || target.DBID == 0 {
		return
	}
	record := db.Vote{
		RoomID:   room.DBID,
		VoterID:  voter.DBID,
		TargetID: target.DBID,
		Round:    entry.Round,
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("persist vote failed room_id=%s err=%v", room.ID, err)
	}
}

func (s *Server) persistEliminations(room *Room, eliminated []int) {
	if s.db == nil {
		return
	}
	for _, id := range eliminated {
		player, ok := room.findPlayer(id)
		if !ok || player.DBID == 0 {
			continue
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Update("is_alive", false).Error; err != nil {
			log.Printf("persist elimination failed room_id=%s player=%s err=%v", room.ID, player.Name, err)
		}
	}
}

func (s *Server) persistSettings(room *Room) {
	if s.db == nil || !s.ensureRoomDBID(room) {
		return
	}
	updates := map[string]any{
		"spy_count":   room.Settings.SpyCount,
		"min_players": room.Settings.MinPlayers,
		"max_players": room.Settings.MaxPlayers,
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(updates).Error; err != nil {
		log.Printf("persist settings failed room_id=%s err=%v", room.ID, err)
	}
}

// persistReset clears the room's descriptions and votes and restores every
// player row, mirroring the in-memory reset projection.
func (s *Server) persistReset(room *Room) {
	if s.db == nil || !s.ensureRoomDBID(room) {
		return
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.Description{}).Error; err != nil {
		log.Printf("persist reset failed room_id=%s err=%v", room.ID, err)
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.Vote{}).Error; err != nil {
		log.Printf("persist reset failed room_id=%s err=%v", room.ID, err)
	}
	if err := s.db.Model(&db.Player{}).Where("room_id = ?", room.DBID).Updates(map[string]any{
		"role":     nil,
		"is_alive": true,
	}).Error; err != nil {
		log.Printf("persist reset failed room_id=%s err=%v", room.ID, err)
	}
	s.persistPhase(room)
}

func (s *Server) persistKick(room *Room, removed Player) {
	if s.db == nil || removed.DBID == 0 {
		return
	}
	if err := s.db.Delete(&db.Player{}, removed.DBID).Error; err != nil {
		log.Printf("persist kick failed room_id=%s player=%s err=%v", room.ID, removed.Name, err)
		return
	}
	for _, player := range room.Players {
		if player.DBID == 0 {
			continue
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Update("join_order", player.JoinOrder).Error; err != nil {
			log.Printf("persist kick failed room_id=%s player=%s err=%v", room.ID, player.Name, err)
		}
	}
}

func (s *Server) persistPresence(room *Room, player *Player) {
	if s.db == nil || player == nil || player.DBID == 0 {
		return
	}
	updates := map[string]any{
		"is_online": player.Online,
		"last_seen": player.LastSeen,
	}
	if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Updates(updates).Error; err != nil {
		log.Printf("persist presence failed room_id=%s player=%s err=%v", room.ID, player.Name, err)
	}
}

func (s *Server) deleteRoomRows(room *Room) {
	if s.db == nil || !s.ensureRoomDBID(room) {
		return
	}
	for _, model := range []any{&db.Description{}, &db.Vote{}, &db.Player{}} {
		if err := s.db.Where("room_id = ?", room.DBID).Delete(model).Error; err != nil {
			log.Printf("delete room rows failed room_id=%s err=%v", room.ID, err)
		}
	}
	if err := s.db.Delete(&db.Room{}, room.DBID).Error; err != nil {
		log.Printf("delete room failed room_id=%s err=%v", room.ID, err)
	}
}

func dbRole(role game.Role) *string {
	if role == "" {
		return nil
	}
	value := string(role)
	return &value
}

func nullableWord(word string) *string {
	if word == "" {
		return nil
	}
	return &word
}

// encodeRoomState rewrites runtime player ids to database ids so the blob
// stays meaningful across a restore, where runtime ids are rebuilt from the
// player rows.
func encodeRoomState(room *Room) datatypes.JSON {
	if room.State == nil {
		return nil
	}
	translated := game.State{Winner: room.State.Winner}
	for _, id := range room.State.SpyIDs {
		translated.SpyIDs = append(translated.SpyIDs, dbPlayerID(room, id))
	}
	for _, id := range room.State.EliminatedIDs {
		translated.EliminatedIDs = append(translated.EliminatedIDs, dbPlayerID(room, id))
	}
	raw, err := game.EncodeState(&translated)
	if err != nil {
		log.Printf("encode game state failed room_id=%s err=%v", room.ID, err)
		return nil
	}
	return datatypes.JSON(raw)
}

// dbPlayerID falls back to the runtime id for players that never reached
// the database.
func dbPlayerID(room *Room, runtimeID int) int {
	if player, ok := room.findPlayer(runtimeID); ok && player.DBID != 0 {
		return int(player.DBID)
	}
	return runtimeID
}

func encodeBotConfig(bot *BotConfig) datatypes.JSON {
	if bot == nil {
		return nil
	}
	raw, err := json.Marshal(bot)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
