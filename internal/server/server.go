package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gin-contrib/cors"
	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kode4food/flowdraft/internal/config"
	"github.com/kode4food/flowdraft/internal/events"
	"github.com/kode4food/flowdraft/pkg/api"
	"github.com/kode4food/flowdraft/pkg/log"
)

type (
	// Server implements the HTTP API server for workflow documents
	Server struct {
		cfg     *config.Config
		store   WorkflowStore
		hub     *events.Hub
		sockets map[*Client]struct{}
		mu      sync.Mutex
	}

	// WorkflowStore is the document persistence the server delegates to
	WorkflowStore interface {
		List(context.Context) ([]string, error)
		Read(context.Context, string) (*api.Workflow, error)
		Write(context.Context, *api.Workflow) (*api.Workflow, bool, error)
		Update(
			context.Context, string, *api.WorkflowPatch,
		) (*api.Workflow, error)
		Delete(context.Context, string) error
	}
)

const (
	// RequestIDHeader carries the request identifier in both directions
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// NewServer creates a new HTTP API server
func NewServer(
	cfg *config.Config, st WorkflowStore, hub *events.Hub,
) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		hub:     hub,
		sockets: map[*Client]struct{}{},
	}
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default().With(log.RequestID(c.GetString(requestIDKey)))
		}),
	))
	router.Use(cors.New(s.corsConfig()))

	// Health check
	router.GET("/health", s.handleHealth)

	a := router.Group("/api")
	{
		a.GET("/health", s.handleHealth)

		// Workflow endpoints
		a.GET("/workflows", s.listWorkflows)
		a.POST("/workflows", s.saveWorkflow)
		a.GET("/workflows/:name", s.getWorkflow)
		a.PUT("/workflows/:name", s.updateWorkflow)
		a.DELETE("/workflows/:name", s.deleteWorkflow)

		// WebSocket
		a.GET("/ws", s.handleWebSocket)
	}

	return router
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

func (s *Server) registerWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets[c] = struct{}{}
}

func (s *Server) unregisterWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sockets, c)
}

func (s *Server) corsConfig() cors.Config {
	res := cors.DefaultConfig()
	if s.cfg.AllowsAllOrigins() {
		res.AllowAllOrigins = true
	} else {
		res.AllowOrigins = s.cfg.AllowOrigins
	}
	res.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	res.AllowHeaders = []string{
		"Origin", "Content-Type", "Authorization", RequestIDHeader,
	}
	res.ExposeHeaders = []string{RequestIDHeader}
	return res
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
