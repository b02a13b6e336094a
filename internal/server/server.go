package server

import (
	"math/rand"
	"sync"
	"time"

	"github.com/solla-h/who-is-the-spy-sub000/internal/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	cfg      config.Config
	rngMu    sync.Mutex
	rng      *rand.Rand
	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:  NewStore(),
		db:     conn,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		timers: make(map[string]*time.Timer),
	}
}

// newTestServer builds a server with a deterministic random source.
func newTestServer(cfg config.Config, seed int64) *Server {
	srv := New(nil, cfg)
	srv.rng = rand.New(rand.NewSource(seed))
	return srv
}

func (s *Server) Router() *gin.Engine {
	registerValidators()
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/rooms", s.handleCreateRoom)
	api.POST("/rooms/join", s.handleJoinRoom)

	rooms := api.Group("/rooms/:roomID")
	rooms.GET("/state", s.handleRoomState)
	rooms.POST("/start", s.handleStartGame)
	rooms.POST("/confirm-word", s.handleConfirmWord)
	rooms.POST("/confirm-word-player", s.handleConfirmWordPlayer)
	rooms.POST("/descriptions", s.handleSubmitDescription)
	rooms.POST("/skip", s.handleSkipPlayer)
	rooms.POST("/start-voting", s.handleStartVoting)
	rooms.POST("/votes", s.handleVote)
	rooms.POST("/finalize-voting", s.handleFinalizeVoting)
	rooms.POST("/continue", s.handleContinueGame)
	rooms.POST("/restart", s.handleRestartGame)
	rooms.POST("/settings", s.handleUpdateSettings)
	rooms.POST("/kick", s.handleKickPlayer)
	rooms.POST("/bots", s.handleAddBot)

	admin := api.Group("/admin")
	admin.Use(s.requireAdmin)
	admin.GET("/rooms", s.handleAdminListRooms)
	admin.POST("/restore", s.handleAdminRestore)
	admin.POST("/credentials", s.handleAdminCreateCredential)
	admin.GET("/credentials", s.handleAdminListCredentials)
	admin.DELETE("/credentials/:credentialID", s.handleAdminRevokeCredential)

	return r
}
