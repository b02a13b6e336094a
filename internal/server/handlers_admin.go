package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/solla-h/who-is-the-spy-sub000/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requireAdmin guards the admin surface with a shared token. When no token
// is configured the surface is disabled entirely.
func (s *Server) requireAdmin(c *gin.Context) {
	if strings.TrimSpace(s.cfg.AdminToken) == "" {
		respondError(c, apiErr(CodeNotAuthorized, "admin access is not configured"))
		c.Abort()
		return
	}
	if c.GetHeader("X-Admin-Token") != s.cfg.AdminToken {
		respondError(c, apiErr(CodeNotAuthorized, "invalid admin token"))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) handleAdminListRooms(c *gin.Context) {
	summaries := s.store.ListRoomSummaries()
	out := make([]gin.H, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, gin.H{
			"room_id":   summary.ID,
			"join_code": summary.JoinCode,
			"phase":     summary.Phase,
			"players":   summary.Players,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": out})
}

type adminRestoreRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

func (s *Server) handleAdminRestore(c *gin.Context) {
	var req adminRestoreRequest
	if !bindJSON(c, &req, nil, "join_code is required") {
		return
	}
	if room, ok := s.store.FindRoomByJoinCode(req.JoinCode); ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "room_id": room.ID, "restored": false})
		return
	}
	room, err := s.restoreRoomByJoinCode(req.JoinCode)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("admin restored room_id=%s join_code=%s", room.ID, room.JoinCode)
	c.JSON(http.StatusOK, gin.H{"success": true, "room_id": room.ID, "restored": true})
}

type createCredentialRequest struct {
	Provider string `json:"provider" binding:"required"`
	Label    string `json:"label" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
	Model    string `json:"model"`
}

func (s *Server) handleAdminCreateCredential(c *gin.Context) {
	if s.db == nil {
		respondError(c, apiErr(CodeDatabaseError, "credential storage requires a database"))
		return
	}
	var req createCredentialRequest
	if !bindJSON(c, &req, nil, "provider, label and secret are required") {
		return
	}
	cred := db.AICredential{
		ID:       uuid.NewString(),
		Provider: strings.TrimSpace(req.Provider),
		Label:    strings.TrimSpace(req.Label),
		Secret:   strings.TrimSpace(req.Secret),
		Model:    strings.TrimSpace(req.Model),
		Status:   "active",
	}
	if cred.Model == "" {
		cred.Model = s.cfg.OpenAIModel
	}
	if err := s.db.Create(&cred).Error; err != nil {
		log.Printf("credential create failed err=%v", err)
		respondError(c, apiErr(CodeDatabaseError, "failed to store credential"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "credential": credentialView(cred)})
}

func (s *Server) handleAdminListCredentials(c *gin.Context) {
	if s.db == nil {
		respondError(c, apiErr(CodeDatabaseError, "credential storage requires a database"))
		return
	}
	var creds []db.AICredential
	if err := s.db.Order("created_at DESC").Find(&creds).Error; err != nil {
		log.Printf("credential list failed err=%v", err)
		respondError(c, apiErr(CodeDatabaseError, "failed to load credentials"))
		return
	}
	out := make([]gin.H, 0, len(creds))
	for _, cred := range creds {
		out = append(out, credentialView(cred))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "credentials": out})
}

func (s *Server) handleAdminRevokeCredential(c *gin.Context) {
	if s.db == nil {
		respondError(c, apiErr(CodeDatabaseError, "credential storage requires a database"))
		return
	}
	id := c.Param("credentialID")
	var cred db.AICredential
	if err := s.db.First(&cred, "id = ?", id).Error; err != nil {
		respondError(c, apiErr(CodeInvalidInput, "credential not found"))
		return
	}
	now := timeNowUTC()
	updates := map[string]any{"status": "revoked", "revoked_at": &now}
	if err := s.db.Model(&cred).Updates(updates).Error; err != nil {
		log.Printf("credential revoke failed id=%s err=%v", id, err)
		respondError(c, apiErr(CodeDatabaseError, "failed to revoke credential"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// credentialView redacts the secret down to a short suffix.
func credentialView(cred db.AICredential) gin.H {
	suffix := cred.Secret
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return gin.H{
		"id":            cred.ID,
		"provider":      cred.Provider,
		"label":         cred.Label,
		"model":         cred.Model,
		"status":        cred.Status,
		"secret_suffix": suffix,
		"created_at":    cred.CreatedAt,
	}
}
