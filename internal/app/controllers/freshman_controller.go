package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/app/models/dto"
	"github.com/yigit/freshman/internal/app/services"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/middleware"
)

// FreshmanService is what the freshman routes need from the service layer
type FreshmanService interface {
	Profile(ctx context.Context, uid int32, token, secret string) (*services.Profile, error)
	UpdateProfile(ctx context.Context, uid int32, token string, changes services.ProfileChanges) error
	Classmates(ctx context.Context, uid int32, token string) ([]models.Mate, error)
	Roommates(ctx context.Context, uid int32, token string) ([]models.Mate, error)
	Familiar(ctx context.Context, uid int32, token string) ([]models.Familiar, error)
}

// FreshmanController handles freshman account operations
type FreshmanController struct {
	freshmanService FreshmanService
}

// NewFreshmanController creates a new FreshmanController
func NewFreshmanController(freshmanService FreshmanService) *FreshmanController {
	return &FreshmanController{
		freshmanService: freshmanService,
	}
}

// caller extracts the authenticated uid and the :account path segment
func caller(ctx *gin.Context) (int32, string, bool) {
	uid, ok := middleware.GetUID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return 0, "", false
	}

	account := strings.TrimSpace(ctx.Param("account"))
	if account == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("account is required"))
		return 0, "", false
	}
	return uid, account, true
}

// GetProfile returns the caller's own freshman record, binding it first
// @Summary Get freshman profile
// @Description Binds the account to the caller when needed and returns the record
// @Tags freshman
// @Produce json
// @Security BearerAuth
// @Param account path string true "Student id, admission ticket or name"
// @Param secret query string false "Secret, required for the first access"
// @Success 200 {object} dto.APIResponse{data=dto.FreshmanProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Secret required"
// @Failure 404 {object} dto.ErrorResponse "No such account"
// @Failure 409 {object} dto.ErrorResponse "Already bound"
// @Router /freshman/{account} [get]
func (c *FreshmanController) GetProfile(ctx *gin.Context) {
	uid, account, ok := caller(ctx)
	if !ok {
		return
	}

	var query dto.FreshmanQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.freshmanService.Profile(ctx.Request.Context(), uid, account, query.Secret)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FreshmanProfileResponse{
		Me:            profile.Me,
		SameNameCount: profile.SameNameCount,
	}))
}

// UpdateProfile changes contact, visibility or last-seen on the caller's record
// @Summary Update freshman profile
// @Tags freshman
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param account path string true "Student id, admission ticket or name"
// @Param contact formData string false "Contact as a JSON document"
// @Param visible formData bool false "Share contact with others"
// @Param last_seen formData bool false "Stamp last seen with now"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Account mismatch"
// @Router /freshman/{account} [put]
func (c *FreshmanController) UpdateProfile(ctx *gin.Context) {
	uid, account, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.UpdateFreshmanRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	changes := services.ProfileChanges{
		Contact:       req.Contact,
		Visible:       req.Visible,
		TouchLastSeen: req.LastSeen != nil && *req.LastSeen,
	}
	if err := c.freshmanService.UpdateProfile(ctx.Request.Context(), uid, account, changes); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

// GetRoommates lists students in the caller's room
// @Summary List roommates
// @Tags freshman
// @Produce json
// @Security BearerAuth
// @Param account path string true "Student id, admission ticket or name"
// @Success 200 {object} dto.APIResponse{data=dto.RoommatesResponse}
// @Failure 403 {object} dto.ErrorResponse "Account mismatch"
// @Router /freshman/{account}/roommate [get]
func (c *FreshmanController) GetRoommates(ctx *gin.Context) {
	uid, account, ok := caller(ctx)
	if !ok {
		return
	}

	roommates, err := c.freshmanService.Roommates(ctx.Request.Context(), uid, account)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RoommatesResponse{Roommates: roommates}))
}

// GetClassmates lists students in the caller's class
// @Router /freshman/{account}/classmate [get]
func (c *FreshmanController) GetClassmates(ctx *gin.Context) {
	uid, account, ok := caller(ctx)
	if !ok {
		return
	}

	classmates, err := c.freshmanService.Classmates(ctx.Request.Context(), uid, account)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ClassmatesResponse{Classmates: classmates}))
}

// GetFamiliar lists visible students the caller might know
// @Router /freshman/{account}/familiar [get]
func (c *FreshmanController) GetFamiliar(ctx *gin.Context) {
	uid, account, ok := caller(ctx)
	if !ok {
		return
	}

	fellows, err := c.freshmanService.Familiar(ctx.Request.Context(), uid, account)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FamiliarResponse{Fellows: fellows}))
}
