package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) Graph(c *gin.Context) {
	hops := s.Config.Graph.DefaultHops
	if k := c.Query("k"); k != "" {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			badRequest(c, "k must be a non-negative integer")
			return
		}
		hops = n
	}

	var seed int64
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(c, "seed must be an integer")
			return
		}
		seed = n
	}

	view, err := s.Manager.Graph(c.Request.Context(), c.Query("center"), hops, seed)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) Circles(c *gin.Context) {
	circles, err := s.Manager.FriendCircles(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"circles": circles})
}

func (s *Server) Stats(c *gin.Context) {
	stats, err := s.Manager.Stats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) Recompute(c *gin.Context) {
	if err := s.Manager.Recompute(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) Reset(c *gin.Context) {
	if err := s.Manager.Reset(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
