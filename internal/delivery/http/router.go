package http

import (
	"github.com/anonmap/anonmap-backend/internal/delivery/http/handler"
	"github.com/anonmap/anonmap-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	submissionHandler *handler.SubmissionHandler
	profileHandler    *handler.ProfileHandler
	moderationHandler *handler.ModerationHandler
	moderationAuth    *middleware.ModerationAuth
}

func NewRouter(
	submissionHandler *handler.SubmissionHandler,
	profileHandler *handler.ProfileHandler,
	moderationHandler *handler.ModerationHandler,
	moderationAuth *middleware.ModerationAuth,
) *Router {
	return &Router{
		submissionHandler: submissionHandler,
		profileHandler:    profileHandler,
		moderationHandler: moderationHandler,
		moderationAuth:    moderationAuth,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20
	router.Use(middleware.RequestID())

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/profiles", r.submissionHandler.Submit)
		v1.GET("/profiles", r.profileHandler.ListApproved)

		// Moderation routes (shared-secret bearer credential)
		mod := v1.Group("/moderation")
		mod.Use(r.moderationAuth.Require())
		{
			mod.GET("/pending", r.moderationHandler.ListPending)
			mod.POST("/approve", r.moderationHandler.Approve)
		}
	}

	return router
}
