package server

import (
	"context"
	"log"
	"time"
)

// RunSweeper evicts rooms that have seen no activity for the configured TTL,
// dropping their database rows along with the in-memory record.
func (s *Server) RunSweeper(ctx context.Context) {
	interval := time.Duration(s.cfg.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepIdleRooms()
		}
	}
}

func (s *Server) sweepIdleRooms() {
	ttl := time.Duration(s.cfg.RoomTTLSeconds) * time.Second
	if ttl <= 0 {
		return
	}
	deadline := timeNowUTC().Add(-ttl)
	for _, room := range s.store.TakeIdleRooms(deadline) {
		for _, player := range room.Players {
			s.cancelBotTimersFor(room.ID, player.ID)
		}
		s.deleteRoomRows(room)
		log.Printf("room swept room_id=%s join_code=%s idle_since=%s", room.ID, room.JoinCode, room.UpdatedAt.Format(time.RFC3339))
	}
}
