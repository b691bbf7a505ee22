package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/deepmemory/internal/core/model"
)

func (s *Server) ListNodes(c *gin.Context) {
	nodes, err := s.Manager.Nodes(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodes})
}

func (s *Server) GetNode(c *gin.Context) {
	node, err := s.Manager.Node(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) CreateNode(c *gin.Context) {
	var req model.Node
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	node, err := s.Manager.CreateNode(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

// SaveNode upserts the node under the id in the path.
func (s *Server) SaveNode(c *gin.Context) {
	var req model.Node
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	req.ID = c.Param("id")

	node, err := s.Manager.SaveNode(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) DeleteNode(c *gin.Context) {
	if err := s.Manager.DeleteNode(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) NodeEvents(c *gin.Context) {
	events, err := s.Manager.EventsForNode(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
