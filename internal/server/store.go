package server

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/solla-h/who-is-the-spy-sub000/internal/game"
)

// Store holds every live room. It is the runtime authority; the database is
// a write-through behind it. All mutations on a room go through UpdateRoom,
// which serializes them per store.
type Store struct {
	mu           sync.Mutex
	nextID       int
	nextPlayerID int
	rooms        map[string]*Room
}

func NewStore() *Store {
	return &Store{
		nextID:       1,
		nextPlayerID: 1,
		rooms:        make(map[string]*Room),
	}
}

func (s *Store) CreateRoom(passwordHash string, settings Settings) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("room-%d", s.nextID)
	s.nextID++
	now := timeNowUTC()
	room := &Room{
		ID:           id,
		JoinCode:     newJoinCode(),
		PasswordHash: passwordHash,
		Phase:        game.PhaseWaiting,
		Settings:     settings,
		Round:        1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.rooms[id] = room
	return room
}

func (s *Store) GetRoom(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok
}

func (s *Store) FindRoomByJoinCode(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		if strings.EqualFold(room.JoinCode, code) {
			return room, true
		}
	}
	return nil, false
}

func (s *Store) UpdateRoom(id string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, errRoomNotFound()
	}
	if err := update(room); err != nil {
		return nil, err
	}
	room.UpdatedAt = timeNowUTC()
	return room, nil
}

func (s *Store) UpdateRoomID(room *Room, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room.ID == newID {
		return
	}
	delete(s.rooms, room.ID)
	room.ID = newID
	s.rooms[newID] = room
}

func (s *Store) DeleteRoom(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// AddPlayer appends a new participant with the next contiguous join order.
// The first player to join owns the room.
func (s *Store) AddPlayer(roomID, name string, isBot bool, bot *BotConfig) (*Room, *Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, nil, errRoomNotFound()
	}
	if room.Phase != game.PhaseWaiting {
		return nil, nil, apiErr(CodeGameInProgress, "game already started")
	}
	for i := range room.Players {
		if room.Players[i].Name == name {
			return nil, nil, apiErr(CodeDuplicateName, "name already taken in this room")
		}
	}
	if room.Settings.MaxPlayers > 0 && len(room.Players) >= room.Settings.MaxPlayers {
		return nil, nil, apiErr(CodeInvalidAction, "room is full")
	}

	player := Player{
		ID:        s.nextPlayerID,
		Name:      name,
		Token:     newPlayerToken(),
		Alive:     true,
		Online:    true,
		JoinOrder: len(room.Players),
		LastSeen:  timeNowUTC(),
		IsBot:     isBot,
		Bot:       bot,
	}
	s.nextPlayerID++
	room.Players = append(room.Players, player)
	if len(room.Players) == 1 {
		room.HostID = player.ID
	}
	room.UpdatedAt = timeNowUTC()
	return room, &room.Players[len(room.Players)-1], nil
}

// FindPlayerByToken resolves a reconnection token across all rooms.
func (s *Store) FindPlayerByToken(token string) (*Room, *Player, bool) {
	if token == "" {
		return nil, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		if player, ok := room.findPlayerByToken(token); ok {
			return room, player, true
		}
	}
	return nil, nil, false
}

// RestoreRoom registers a room rebuilt from the database, bumping the id
// counters past anything it carries.
func (s *Store) RestoreRoom(room *Room) error {
	if room == nil {
		return apiErr(CodeInvalidInput, "room is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return apiErr(CodeInvalidAction, "room already running")
	}
	for _, existing := range s.rooms {
		if existing.JoinCode == room.JoinCode {
			return apiErr(CodeInvalidAction, "room already running")
		}
	}
	s.rooms[room.ID] = room
	if id := roomSortKey(room.ID); id >= s.nextID {
		s.nextID = id + 1
	}
	maxPlayerID := 0
	for _, player := range room.Players {
		if player.ID > maxPlayerID {
			maxPlayerID = player.ID
		}
	}
	if maxPlayerID >= s.nextPlayerID {
		s.nextPlayerID = maxPlayerID + 1
	}
	return nil
}

func (s *Store) ListRoomSummaries() []RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, RoomSummary{
			ID:       room.ID,
			JoinCode: room.JoinCode,
			Phase:    room.Phase,
			Players:  len(room.Players),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return roomSortKey(list[i].ID) < roomSortKey(list[j].ID)
	})
	return list
}

// TakeIdleRooms removes and returns every room whose last update is older
// than the deadline.
func (s *Store) TakeIdleRooms(deadline time.Time) []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	var idle []*Room
	for id, room := range s.rooms {
		if room.UpdatedAt.Before(deadline) {
			idle = append(idle, room)
			delete(s.rooms, id)
		}
	}
	return idle
}

func roomSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}
