package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anonmap/anonmap-backend/internal/domain"
	"github.com/anonmap/anonmap-backend/internal/usecase/moderation"
	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationUseCase *moderation.UseCase
}

func NewModerationHandler(moderationUseCase *moderation.UseCase) *ModerationHandler {
	return &ModerationHandler{
		moderationUseCase: moderationUseCase,
	}
}

// ApproveRequest identifies the profile to approve.
type ApproveRequest struct {
	ID int `json:"id" binding:"required"`
}

// ListPending handles GET /moderation/pending
// @Summary List pending profiles
// @Description List all profiles awaiting moderation
// @Tags moderation
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Profile
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /moderation/pending [get]
func (h *ModerationHandler) ListPending(c *gin.Context) {
	profiles, err := h.moderationUseCase.ListPending(c.Request.Context())
	if err != nil {
		slog.Error("failed to list pending profiles", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list pending profiles",
		})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// Approve handles POST /moderation/approve
// @Summary Approve a profile
// @Description Make a pending profile publicly visible
// @Tags moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ApproveRequest true "Profile id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /moderation/approve [post]
func (h *ModerationHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	if err := h.moderationUseCase.Approve(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "profile not found",
			})
			return
		}
		slog.Error("failed to approve profile", "id", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to approve profile",
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "profile approved"})
}
