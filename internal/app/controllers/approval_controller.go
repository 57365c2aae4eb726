package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/app/models/dto"
	"github.com/yigit/freshman/internal/middleware"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/helpers"
)

// ApprovalService is what the approval routes need from the service layer
type ApprovalService interface {
	Submit(ctx context.Context, approval models.NewApproval) (*models.Approval, error)
	QueryByUID(ctx context.Context, uid int32) (*models.Approval, error)
	List(ctx context.Context, college string, page helpers.PageView) ([]*models.Approval, error)
	Search(ctx context.Context, query string, count int) ([]*models.Approval, error)
	Delete(ctx context.Context, id int32) error
}

// ApprovalController handles real-identity approval operations
type ApprovalController struct {
	approvalService ApprovalService
}

// NewApprovalController creates a new ApprovalController
func NewApprovalController(approvalService ApprovalService) *ApprovalController {
	return &ApprovalController{
		approvalService: approvalService,
	}
}

// GetMyApproval returns the caller's certified approval
// @Summary Get own approval
// @Tags checking
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Approval}
// @Failure 403 {object} dto.ErrorResponse "Identity verification required"
// @Failure 404 {object} dto.ErrorResponse "No approval record"
// @Router /checking/approvals/me [get]
func (c *ApprovalController) GetMyApproval(ctx *gin.Context) {
	uid, ok := middleware.GetUID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	approval, err := c.approvalService.QueryByUID(ctx.Request.Context(), uid)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(approval))
}

// SubmitApproval records a new approval
// @Summary Submit approval
// @Tags checking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitApprovalRequest true "Approval"
// @Success 201 {object} dto.APIResponse{data=models.Approval}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /checking/approvals [post]
func (c *ApprovalController) SubmitApproval(ctx *gin.Context) {
	var req dto.SubmitApprovalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	approval, err := c.approvalService.Submit(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(approval))
}

// ListApprovals returns a page of approvals, newest first
// @Summary List approvals
// @Tags checking
// @Produce json
// @Security BearerAuth
// @Param college query string false "College substring"
// @Param offset query int false "Offset"
// @Param count query int false "Page size, at most 50"
// @Success 200 {object} dto.APIResponse{data=dto.ApprovalListResponse}
// @Router /checking/approvals [get]
func (c *ApprovalController) ListApprovals(ctx *gin.Context) {
	var query dto.ListApprovalsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	approvals, err := c.approvalService.List(ctx.Request.Context(), query.College, helpers.ParsePageView(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toApprovalList(approvals)))
}

// SearchApprovals finds approvals by name
// @Router /checking/approvals/search [get]
func (c *ApprovalController) SearchApprovals(ctx *gin.Context) {
	var query dto.SearchApprovalsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	approvals, err := c.approvalService.Search(ctx.Request.Context(), query.Query, query.Count)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toApprovalList(approvals)))
}

// DeleteApproval removes an approval by id
// @Router /checking/approvals/{id} [delete]
func (c *ApprovalController) DeleteApproval(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("approval id must be a positive number"))
		return
	}

	if err := c.approvalService.Delete(ctx.Request.Context(), int32(id)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

func toApprovalList(approvals []*models.Approval) dto.ApprovalListResponse {
	out := make([]models.Approval, 0, len(approvals))
	for _, a := range approvals {
		out = append(out, *a)
	}
	return dto.ApprovalListResponse{Approvals: out}
}
