package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type createRoomRequest struct {
	Name     string `json:"name" binding:"required,playername"`
	Password string `json:"password"`
	SpyCount int    `json:"spy_count"`
}

type joinRoomRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
	Name     string `json:"name" binding:"required,playername"`
	Password string `json:"password"`
}

var nameMessages = bindMessages{
	"Name": {
		"required":   "name is required",
		"playername": "name must be 1-20 letters, digits or simple punctuation",
	},
	"JoinCode": {
		"required": "join_code is required",
	},
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req, nameMessages, "invalid room request") {
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		respondError(c, apiErr(CodeInvalidInput, err.Error()))
		return
	}
	password, err := validatePassword(req.Password)
	if err != nil {
		respondError(c, apiErr(CodeInvalidInput, err.Error()))
		return
	}

	passwordHash := ""
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, apiErr(CodeDatabaseError, "failed to create room"))
			return
		}
		passwordHash = string(hash)
	}

	settings := Settings{
		SpyCount:   s.cfg.DefaultSpyCount,
		MinPlayers: s.cfg.MinPlayers,
		MaxPlayers: s.cfg.MaxPlayers,
	}
	if req.SpyCount > 0 {
		settings.SpyCount = req.SpyCount
	}

	room := s.store.CreateRoom(passwordHash, settings)
	_, host, err := s.store.AddPlayer(room.ID, name, false, nil)
	if err != nil {
		s.store.DeleteRoom(room.ID)
		respondError(c, err)
		return
	}
	s.persistRoom(room)
	s.persistPlayer(room, host)
	log.Printf("room created room_id=%s join_code=%s host=%s", room.ID, room.JoinCode, host.Name)
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"room_id":   room.ID,
		"join_code": room.JoinCode,
		"player_id": host.ID,
		"token":     host.Token,
	})
}

func (s *Server) handleJoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if !bindJSON(c, &req, nameMessages, "invalid join request") {
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		respondError(c, apiErr(CodeInvalidInput, err.Error()))
		return
	}

	room, ok := s.store.FindRoomByJoinCode(req.JoinCode)
	if !ok {
		restored, err := s.restoreRoomByJoinCode(req.JoinCode)
		if err != nil {
			respondError(c, errRoomNotFound())
			return
		}
		room = restored
	}
	if room.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, apiErr(CodeWrongPassword, "wrong room password"))
			return
		}
	}

	_, player, err := s.store.AddPlayer(room.ID, name, false, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	s.persistPlayer(room, player)
	log.Printf("player joined room_id=%s player=%s", room.ID, player.Name)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"room_id":   room.ID,
		"join_code": room.JoinCode,
		"player_id": player.ID,
		"token":     player.Token,
	})
}

// handleRoomState is the polled read. It resolves the caller by reconnection
// token, refreshes presence and returns the redacted per-player view.
func (s *Server) handleRoomState(c *gin.Context) {
	room, ok := s.resolveRoomParam(c.Param("roomID"))
	if !ok {
		respondError(c, errRoomNotFound())
		return
	}
	token := playerToken(c)
	if token == "" {
		respondError(c, apiErr(CodeInvalidInput, "player token is required"))
		return
	}
	room, caller, err := s.TouchPlayer(room.ID, token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildStateView(room, caller))
}

// resolveRoomParam accepts a room id or a join code, reloading the room
// from the database when it is not in memory.
func (s *Server) resolveRoomParam(param string) (*Room, bool) {
	if room, ok := s.store.GetRoom(param); ok {
		return room, true
	}
	if room, ok := s.store.FindRoomByJoinCode(param); ok {
		return room, true
	}
	if room, err := s.restoreRoomByJoinCode(param); err == nil {
		return room, true
	}
	return nil, false
}
