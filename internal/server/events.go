package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/deepmemory/internal/core/model"
)

func (s *Server) ListEvents(c *gin.Context) {
	events, err := s.Manager.AllEvents(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) GetEvent(c *gin.Context) {
	event, err := s.Manager.Event(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// SaveEvent upserts by the id in the body; clients should send a stable id
// so a retried request does not create a second event.
func (s *Server) SaveEvent(c *gin.Context) {
	var req model.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	event, err := s.Manager.SaveEvent(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) UpdateEvent(c *gin.Context) {
	var patch model.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	event, err := s.Manager.UpdateEvent(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) DeleteEvent(c *gin.Context) {
	if err := s.Manager.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
