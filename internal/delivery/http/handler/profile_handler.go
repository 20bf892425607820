package handler

import (
	"log/slog"
	"net/http"

	"github.com/anonmap/anonmap-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUseCase *profile.UseCase
}

func NewProfileHandler(profileUseCase *profile.UseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// ListApproved handles GET /profiles
// @Summary List approved profiles
// @Description List all approved profiles in the public projection
// @Tags profiles
// @Produce json
// @Success 200 {array} domain.PublicProfile
// @Failure 500 {object} ErrorResponse
// @Router /profiles [get]
func (h *ProfileHandler) ListApproved(c *gin.Context) {
	profiles, err := h.profileUseCase.ListApproved(c.Request.Context())
	if err != nil {
		slog.Error("failed to list approved profiles", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list profiles",
		})
		return
	}

	c.JSON(http.StatusOK, profiles)
}
