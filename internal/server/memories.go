package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/core/model"
	"github.com/agenthands/deepmemory/internal/wizard"
)

// StartMemoryRequest is accepted as JSON or as a multipart form with an
// optional "image" file.
type StartMemoryRequest struct {
	Date         string `json:"date" form:"date"`
	Title        string `json:"title" form:"title"`
	Content      string `json:"content" form:"content"`
	ContextClues string `json:"context_clues" form:"context_clues"`
	ImagePath    string `json:"image_path" form:"image_path"`
}

type CommitMemoryRequest struct {
	Decisions []model.Decision `json:"decisions"`
}

// StartMemory analyses a draft and opens its review. Passing ?session=<id>
// reuses a session that went back to input.
func (s *Server) StartMemory(c *gin.Context) {
	var req StartMemoryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		if err := os.MkdirAll(s.Config.Server.UploadDir, 0o755); err != nil {
			s.respondError(c, err)
			return
		}
		dst := filepath.Join(s.Config.Server.UploadDir, uuid.New().String()+strings.ToLower(filepath.Ext(file.Filename)))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			s.respondError(c, err)
			return
		}
		req.ImagePath = dst
	} else if req.ImagePath != "" {
		path, ok := underDir(s.Config.Server.UploadDir, req.ImagePath)
		if !ok {
			badRequest(c, "image_path must point into the upload directory")
			return
		}
		req.ImagePath = path
	}

	if req.ImagePath == "" && strings.TrimSpace(req.Content) == "" {
		badRequest(c, "an image or some text is required")
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format(model.DateLayout)
	}

	draft := wizard.NewDraft(req.Date, req.Title, req.Content, req.ContextClues, req.ImagePath)
	if err := model.Validate(draft); err != nil {
		badRequest(c, err.Error())
		return
	}

	sess, err := s.session(c.Query("session"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if sess.State() != wizard.StateInput {
		c.JSON(http.StatusConflict, gin.H{"error": "session is already in review"})
		return
	}

	ctx := c.Request.Context()
	var entities []model.DetectedEntity
	if req.ImagePath != "" {
		entities = s.Analyzer.AnalyzeImage(ctx, req.ImagePath, req.ContextClues)
	} else {
		entities = s.Analyzer.AnalyzeText(ctx, req.Content)
	}

	var proposals []model.Decision
	if !model.FailedAnalysis(entities) {
		known, err := s.Manager.Nodes(ctx)
		if err != nil {
			s.respondError(c, err)
			return
		}
		matches, err := s.Matcher.SuggestIdentities(ctx, entities, known)
		if err != nil {
			s.Log.Warn("identity suggestions skipped", zap.Error(err))
		}
		proposals = wizard.Propose(entities, matches, known)
	}

	if err := sess.Analyze(draft, entities, proposals); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess.Snapshot())
}

func (s *Server) GetMemory(c *gin.Context) {
	sess, err := s.Sessions.Get(c.Param("session"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) BackMemory(c *gin.Context) {
	sess, err := s.Sessions.Get(c.Param("session"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := sess.Back(); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) CommitMemory(c *gin.Context) {
	sess, err := s.Sessions.Get(c.Param("session"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req CommitMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	event, err := sess.Commit(c.Request.Context(), s.Manager, req.Decisions)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) DiscardMemory(c *gin.Context) {
	if _, err := s.Sessions.Get(c.Param("session")); err != nil {
		s.respondError(c, err)
		return
	}
	s.Sessions.Delete(c.Param("session"))
	c.Status(http.StatusNoContent)
}

func (s *Server) session(id string) (*wizard.Session, error) {
	if id == "" {
		return s.Sessions.New(), nil
	}
	return s.Sessions.Get(id)
}

// underDir resolves path and reports whether it lies inside dir. Relative paths
// are taken relative to dir.
func underDir(dir, path string) (string, bool) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}
