package server

import (
	"errors"
	"net/http"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/history"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/review"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every non-2xx API reply.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps controller errors to a status and the message shown to the user.
// Model failures never leak detail; the log has it.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrNoInput):
		return http.StatusBadRequest, app.MsgNoInput
	case errors.Is(err, app.ErrBusy), errors.Is(err, app.ErrSuperseded):
		return http.StatusConflict, err.Error()
	case errors.Is(err, review.ErrNoResult):
		return http.StatusConflict, err.Error()
	case errors.Is(err, analysis.ErrAnalysisFailed):
		return http.StatusBadGateway, app.MsgAnalysisFailed
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, review.ErrEmptySummary),
		errors.Is(err, media.ErrBadSlot),
		errors.Is(err, media.ErrEmptyUpload),
		errors.Is(err, media.ErrUnsupportedMedia),
		errors.Is(err, app.ErrUnknownView):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", c.FullPath(), "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) tooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "file is too large"})
}
