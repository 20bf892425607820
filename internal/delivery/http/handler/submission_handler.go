package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/usecase/submission"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submitUseCase *submission.UseCase
}

func NewSubmissionHandler(submitUseCase *submission.UseCase) *SubmissionHandler {
	return &SubmissionHandler{
		submitUseCase: submitUseCase,
	}
}

// Submit handles POST /profiles
// @Summary Submit a profile
// @Description Submit a location-tagged profile for moderation
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profiles [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	// Multipart parsers deliver fields as scalar or single-element array
	// depending on the client; PostForm flattens both. Everything past
	// this point works on the typed request.
	raw := submission.RawSubmission{
		Handle:      c.PostForm("pseudo"),
		Description: c.PostForm("description"),
		Lat:         c.PostForm("lat"),
		Lng:         c.PostForm("lng"),
		AnonRadius:  c.PostForm("anon_radius"),
	}

	var file *submission.AvatarFile
	if fh, err := c.FormFile("avatar"); err == nil {
		ext := filepath.Ext(fh.Filename)
		tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("avatar-%d%s", time.Now().UnixNano(), ext))
		if err := c.SaveUploadedFile(fh, tmpPath); err != nil {
			slog.Error("failed to spool avatar upload", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "failed to submit profile",
			})
			return
		}
		file = &submission.AvatarFile{
			Path:        tmpPath,
			Ext:         ext,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	_, err := h.submitUseCase.Submit(c.Request.Context(), raw, file, c.ClientIP())
	if err != nil {
		if iie, ok := domain.AsInvalidInput(err); ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid input",
				Kind:  string(iie.Kind),
			})
			return
		}
		slog.Error("submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to submit profile",
		})
		return
	}

	// Throttled submissions are answered exactly like accepted ones so the
	// limit cannot be probed from outside.
	c.JSON(http.StatusOK, MessageResponse{
		Message: "profile submitted, pending moderation",
	})
}
