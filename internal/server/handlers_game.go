package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type descriptionRequest struct {
	Text string `json:"text" binding:"required,description"`
}

type voteRequest struct {
	TargetID int `json:"target_id" binding:"required"`
}

type settingsRequest struct {
	SpyCount   int  `json:"spy_count" binding:"required"`
	MaxPlayers *int `json:"max_players"`
}

type kickRequest struct {
	TargetID int `json:"target_id" binding:"required"`
}

type addBotRequest struct {
	Name    string `json:"name" binding:"required,playername"`
	Model   string `json:"model"`
	Persona string `json:"persona"`
}

var descriptionMessages = bindMessages{
	"Text": {
		"required":    "text is required",
		"description": "description must be 1-140 letters, digits or simple punctuation",
	},
}

// roomOp runs one engine operation and writes the standard success envelope.
func (s *Server) roomOp(c *gin.Context, op func(roomID, token string) (*Room, error)) {
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
	updated, err := op(room.ID, token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"phase":   updated.Phase.String(),
		"round":   updated.Round,
	})
}

func (s *Server) handleStartGame(c *gin.Context) {
	s.roomOp(c, s.StartGame)
}

func (s *Server) handleConfirmWord(c *gin.Context) {
	s.roomOp(c, s.ConfirmWord)
}

func (s *Server) handleConfirmWordPlayer(c *gin.Context) {
	s.roomOp(c, s.ConfirmWordSeen)
}

func (s *Server) handleSubmitDescription(c *gin.Context) {
	var req descriptionRequest
	if !bindJSON(c, &req, descriptionMessages, "invalid description") {
		return
	}
	text, err := validateDescription(req.Text)
	if err != nil {
		respondError(c, apiErr(CodeInvalidInput, err.Error()))
		return
	}
	s.roomOp(c, func(roomID, token string) (*Room, error) {
		return s.SubmitDescription(roomID, token, text)
	})
}

func (s *Server) handleSkipPlayer(c *gin.Context) {
	s.roomOp(c, s.SkipPlayer)
}

func (s *Server) handleStartVoting(c *gin.Context) {
	s.roomOp(c, s.StartVoting)
}

func (s *Server) handleVote(c *gin.Context) {
	var req voteRequest
	if !bindJSON(c, &req, nil, "target_id is required") {
		return
	}
	s.roomOp(c, func(roomID, token string) (*Room, error) {
		return s.Vote(roomID, token, req.TargetID)
	})
}

func (s *Server) handleFinalizeVoting(c *gin.Context) {
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
	updated, tally, err := s.FinalizeVoting(room.ID, token)
	if err != nil {
		respondError(c, err)
		return
	}
	winner := ""
	if updated.State != nil {
		winner = string(updated.State.Winner)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"phase":      updated.Phase.String(),
		"round":      updated.Round,
		"max_votes":  tally.MaxVotes,
		"eliminated": tally.Eliminated,
		"winner":     winner,
	})
}

func (s *Server) handleContinueGame(c *gin.Context) {
	s.roomOp(c, s.ContinueGame)
}

func (s *Server) handleRestartGame(c *gin.Context) {
	s.roomOp(c, s.RestartGame)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req settingsRequest
	if !bindJSON(c, &req, nil, "spy_count is required") {
		return
	}
	s.roomOp(c, func(roomID, token string) (*Room, error) {
		return s.UpdateSettings(roomID, token, req.SpyCount, req.MaxPlayers)
	})
}

func (s *Server) handleKickPlayer(c *gin.Context) {
	var req kickRequest
	if !bindJSON(c, &req, nil, "target_id is required") {
		return
	}
	s.roomOp(c, func(roomID, token string) (*Room, error) {
		return s.KickPlayer(roomID, token, req.TargetID)
	})
}

// handleAddBot lets the host seat an automated player while waiting. The
// bot joins the roster like any participant; only the flag and config blob
// distinguish it.
func (s *Server) handleAddBot(c *gin.Context) {
	var req addBotRequest
	if !bindJSON(c, &req, nameMessages, "invalid bot request") {
		return
	}
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
	name, err := validateName(req.Name)
	if err != nil {
		respondError(c, apiErr(CodeInvalidInput, err.Error()))
		return
	}
	if len(req.Persona) > maxPersonaLength {
		respondError(c, apiErr(CodeInvalidInput, "persona is too long"))
		return
	}

	if _, err := s.store.UpdateRoom(room.ID, func(room *Room) error {
		caller, err := callerFromToken(room, token)
		if err != nil {
			return err
		}
		return requireHost(room, caller)
	}); err != nil {
		respondError(c, err)
		return
	}

	bot := &BotConfig{Provider: "openai", Model: req.Model, Persona: req.Persona}
	_, player, err := s.store.AddPlayer(room.ID, name, true, bot)
	if err != nil {
		respondError(c, err)
		return
	}
	s.persistPlayer(room, player)
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"player_id": player.ID,
	})
}
