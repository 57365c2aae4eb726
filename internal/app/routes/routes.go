package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/freshman/internal/app/controllers"
	"github.com/yigit/freshman/internal/app/models/dto"
	"github.com/yigit/freshman/internal/middleware"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/auth"
	"github.com/yigit/freshman/internal/pkg/validation"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	freshmanController *controllers.FreshmanController,
	approvalController *controllers.ApprovalController,
	authMiddleware *middleware.AuthMiddleware,
	store Pinger,
) {
	validation.MustRegisterGinRules()

	// API version group
	v1 := router.Group("/api/v1")

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Freshman routes; :account is a student id, admission ticket or name
	freshman := authenticated.Group("/freshman/:account")
	{
		freshman.GET("", freshmanController.GetProfile)
		freshman.PUT("", freshmanController.UpdateProfile)
		freshman.GET("/roommate", freshmanController.GetRoommates)
		freshman.GET("/classmate", freshmanController.GetClassmates)
		freshman.GET("/familiar", freshmanController.GetFamiliar)
	}

	// Approval routes
	approvals := authenticated.Group("/checking/approvals")
	{
		approvals.GET("/me", approvalController.GetMyApproval)

		adminOnly := approvals.Group("")
		adminOnly.Use(authMiddleware.RoleRequired(auth.RoleAdmin))
		{
			adminOnly.POST("", approvalController.SubmitApproval)
			adminOnly.GET("", approvalController.ListApprovals)
			adminOnly.GET("/search", approvalController.SearchApprovals)
			adminOnly.DELETE("/:id", approvalController.DeleteApproval)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			middleware.HandleAPIError(c, apperrors.ErrStoreUnavailable)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
