// Package server exposes the workflow engine over HTTP: definition CRUD,
// execution lifecycle, health, and a WebSocket event stream
package server

import (
	"log/slog"
	"net/http"
	"sync"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/flowgrid/engine/internal/engine"
	"github.com/flowgrid/engine/pkg/util"
)

// Server implements the HTTP API server for the workflow engine
type Server struct {
	engine  *engine.Engine
	sockets util.Set[*Client]
	mu      sync.Mutex
}

// NewServer creates a new HTTP API server
func NewServer(eng *engine.Engine) *Server {
	return &Server{
		engine:  eng,
		sockets: util.Set[*Client]{},
	}
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", s.handleHealth)

	// Engine endpoints
	eng := router.Group("/engine")
	{
		// Workflow endpoints
		eng.GET("/workflow", s.listWorkflows)
		eng.PUT("/workflow/:workflowID", s.putWorkflow)
		eng.GET("/workflow/:workflowID", s.getWorkflow)
		eng.DELETE("/workflow/:workflowID", s.deleteWorkflow)
		eng.POST("/workflow/:workflowID/execute", s.executeWorkflow)

		// Execution endpoints
		eng.GET("/execution", s.listExecutions)
		eng.GET("/execution/:executionID", s.getExecution)
		eng.POST("/execution/:executionID/cancel", s.cancelExecution)

		// WebSocket
		eng.GET("/ws", s.handleWebSocket)
	}

	return router
}

func (s *Server) registerWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Add(c)
}

func (s *Server) unregisterWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Remove(c)
}

// CloseWebSockets closes all active WebSocket connections.
func (s *Server) CloseWebSockets() {
	s.mu.Lock()
	conns := make([]*Client, 0, len(s.sockets))
	for c := range s.sockets {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
