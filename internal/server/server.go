package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/config"
	"github.com/agenthands/deepmemory/internal/core"
	"github.com/agenthands/deepmemory/internal/core/dedupe"
	"github.com/agenthands/deepmemory/internal/core/extraction"
	"github.com/agenthands/deepmemory/internal/wizard"
)

type Server struct {
	Manager  *core.Manager
	Analyzer *extraction.Analyzer
	Matcher  *dedupe.Matcher
	Sessions *Sessions
	Config   *config.Config
	Log      *zap.Logger
}

func NewServer(m *core.Manager, analyzer *extraction.Analyzer, matcher *dedupe.Matcher, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{
		Manager:  m,
		Analyzer: analyzer,
		Matcher:  matcher,
		Sessions: NewSessions(),
		Config:   cfg,
		Log:      log,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")

	api.GET("/graph", s.Graph)
	api.GET("/circles", s.Circles)
	api.GET("/stats", s.Stats)

	api.GET("/nodes", s.ListNodes)
	api.POST("/nodes", s.CreateNode)
	api.GET("/nodes/:id", s.GetNode)
	api.PUT("/nodes/:id", s.SaveNode)
	api.DELETE("/nodes/:id", s.DeleteNode)
	api.GET("/nodes/:id/events", s.NodeEvents)

	api.GET("/events", s.ListEvents)
	api.POST("/events", s.SaveEvent)
	api.GET("/events/:id", s.GetEvent)
	api.PATCH("/events/:id", s.UpdateEvent)
	api.DELETE("/events/:id", s.DeleteEvent)

	api.GET("/edges", s.ListEdges)
	api.PUT("/edges", s.AddEdge)
	api.PATCH("/edges", s.UpdateEdge)
	api.DELETE("/edges", s.RemoveEdge)

	api.POST("/recompute", s.Recompute)
	api.POST("/reset", s.Reset)

	api.POST("/memories", s.StartMemory)
	api.GET("/memories/:session", s.GetMemory)
	api.DELETE("/memories/:session", s.DiscardMemory)
	api.POST("/memories/:session/back", s.BackMemory)
	api.POST("/memories/:session/commit", s.CommitMemory)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// respondError maps domain errors onto HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNodeNotFound),
		errors.Is(err, core.ErrEventNotFound),
		errors.Is(err, core.ErrEdgeNotFound),
		errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrRootNode),
		errors.Is(err, wizard.ErrWrongState),
		errors.Is(err, wizard.ErrAnalysisFailed):
		status = http.StatusConflict
	case errors.Is(err, core.ErrInvalid):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.Log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
