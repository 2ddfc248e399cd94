package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/review"
	"github.com/gin-gonic/gin"
)

type summaryRequest struct {
	Summary string `json:"summary"`
}

type navigateRequest struct {
	Direction string `json:"direction" binding:"required"`
}

type viewRequest struct {
	View string `json:"view" binding:"required"`
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleDraft(c *gin.Context) {
	var d app.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		s.badRequest(c, err)
		return
	}

	s.coach.SetDraft(d)
	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleUpload(c *gin.Context) {
	slot, err := slotParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
			s.tooLarge(c)
			return
		}
		s.badRequest(c, fmt.Errorf("missing multipart field \"file\": %w", err))
		return
	}
	if fh.Size > s.config.MaxUploadBytes {
		s.tooLarge(c)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.fail(c, err)
		return
	}

	upload, err := media.NewUpload(fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		s.fail(c, err)
		return
	}

	if _, err := s.coach.SelectFile(slot, upload); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleClearSlot(c *gin.Context) {
	slot, err := slotParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := s.coach.ClearSlot(slot); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

// handlePreview streams a held upload. Range requests are honored so the
// browser can seek in audio and video.
func (s *Server) handlePreview(c *gin.Context) {
	u, ok := s.coach.Preview(media.PreviewRef(c.Param("ref")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "preview not found"})
		return
	}

	c.Header("Content-Type", u.MIMEType)
	c.Header("Cache-Control", "no-store")
	http.ServeContent(c.Writer, c.Request, u.Name, time.Time{}, bytes.NewReader(u.Data))
}

func (s *Server) handleAnalyze(c *gin.Context) {
	if _, err := s.coach.Submit(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleRegenerate(c *gin.Context) {
	if _, err := s.coach.RegenerateFeedback(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleSaveSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	if err := s.coach.SaveSummary(req.Summary); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleNavigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	dir, err := review.ParseDirection(req.Direction)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	if err := s.coach.Navigate(dir); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.coach.Snapshot().History})
}

func (s *Server) handleSelectHistory(c *gin.Context) {
	if err := s.coach.SelectHistory(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	if err := s.coach.DeleteHistory(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	v, err := app.ParseView(req.View)
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := s.coach.ShowView(v); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleReset(c *gin.Context) {
	s.coach.Reset()
	c.JSON(http.StatusOK, s.coach.Snapshot())
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Snapshot())
}

func slotParam(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", media.ErrBadSlot, c.Param("slot"))
	}

	return n, nil
}
