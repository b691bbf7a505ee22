package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AddEdgeRequest struct {
	Source       string `json:"source" binding:"required"`
	Target       string `json:"target" binding:"required"`
	RelationType string `json:"relation_type"`
}

type UpdateEdgeRequest struct {
	Source    string      `json:"source" binding:"required"`
	Target    string      `json:"target" binding:"required"`
	Attribute string      `json:"attribute" binding:"required"`
	Value     interface{} `json:"value"`
}

// ListEdges returns every edge, or the single edge between source and target
// when both are given.
func (s *Server) ListEdges(c *gin.Context) {
	source, target := c.Query("source"), c.Query("target")
	if source != "" && target != "" {
		edge, err := s.Manager.Relation(c.Request.Context(), source, target)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, edge)
		return
	}

	edges, err := s.Manager.Edges(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"edges": edges})
}

func (s *Server) AddEdge(c *gin.Context) {
	var req AddEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	changed, err := s.Manager.AddEdge(c.Request.Context(), req.Source, req.Target, req.RelationType)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (s *Server) UpdateEdge(c *gin.Context) {
	var req UpdateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	changed, err := s.Manager.UpdateEdgeAttribute(c.Request.Context(), req.Source, req.Target, req.Attribute, req.Value)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (s *Server) RemoveEdge(c *gin.Context) {
	source, target := c.Query("source"), c.Query("target")
	if source == "" || target == "" {
		badRequest(c, "source and target are required")
		return
	}
	changed, err := s.Manager.RemoveEdge(c.Request.Context(), source, target)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}
