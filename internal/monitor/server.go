// Package monitor exposes a read-only HTTP+WebSocket view of the process
// table. It is strictly observational: every
// mutating operation (set_deadline, set_exec_time, set_rate, set_policy)
// stays a plain method call on schedcore, reachable only from user-process
// syscalls, never from this surface.
package monitor

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursework/rtkernel/internal/schedcore"
	"github.com/coursework/rtkernel/internal/schedevents"
	"github.com/coursework/rtkernel/internal/schedmetrics"
)

// Config holds HTTP server settings, mirroring gateway.Config.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the monitor HTTP surface.
type Server struct {
	router *gin.Engine
	http   *http.Server

	table *schedcore.Table
	cache *SnapshotCache
	hub   *StreamHub
	auth  *TokenIssuer
}

// NewServer wires routes over table. cache may be nil (stats are
// computed live each request); auth may be nil to disable the bearer
// gate entirely, for local development.
func NewServer(cfg Config, table *schedcore.Table, cache *SnapshotCache, hub *StreamHub, auth *TokenIssuer) *Server {
	s := &Server{
		router: gin.Default(),
		table:  table,
		cache:  cache,
		hub:    hub,
		auth:   auth,
	}
	s.setupRoutes()

	s.http = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthz)

	v1 := s.router.Group("/v1")
	if s.auth != nil {
		v1.Use(s.auth.RequireScope("read"))
	}
	{
		v1.GET("/table", s.getTable)
		v1.GET("/table/stats", s.getStats)
		v1.GET("/table/stream", s.streamTable)
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// getTable mirrors the printinfo syscall: Embryo processes are excluded,
// same as schedcore.Table.Snapshot.
func (s *Server) getTable(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"processes": s.table.Snapshot()})
}

func (s *Server) getStats(c *gin.Context) {
	if s.cache != nil {
		if rep, ok := s.cache.Get(c.Request.Context()); ok {
			c.JSON(http.StatusOK, rep)
			return
		}
	}
	c.JSON(http.StatusOK, schedmetrics.Collect(s.table))
}

func (s *Server) streamTable(c *gin.Context) {
	s.hub.ServeHTTP(c.Writer, c.Request)
}

// Start begins serving and blocks until Shutdown is called or an
// unrecoverable listener error occurs.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// PublishLoop relays published kernel events into the WebSocket hub until
// ch is closed; it has no other stop condition. Callers fan schedevents.Publisher
// output into ch themselves; this keeps the hub decoupled from any one
// Publisher implementation.
func (s *Server) PublishLoop(ch <-chan schedevents.Event) {
	for event := range ch {
		s.hub.Broadcast(event)
	}
}
