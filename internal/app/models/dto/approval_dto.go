package dto

import (
	"time"

	"github.com/yigit/freshman/internal/app/models"
)

// SubmitApprovalRequest is the body an administrator posts
type SubmitApprovalRequest struct {
	StudentID      string     `json:"studentId" binding:"required,studentid"`
	Name           string     `json:"name" binding:"required,max=50"`
	IdentityNumber *string    `json:"identityNumber,omitempty" binding:"omitempty,idnumber"`
	ApprovedTime   *time.Time `json:"approvedTime,omitempty"`
	College        string     `json:"college" binding:"required,max=50"`
	Major          *string    `json:"major,omitempty" binding:"omitempty,max=50"`
}

// ToModel converts the request into a new approval
func (r SubmitApprovalRequest) ToModel() models.NewApproval {
	return models.NewApproval{
		StudentID:      r.StudentID,
		Name:           r.Name,
		IdentityNumber: r.IdentityNumber,
		ApprovedTime:   r.ApprovedTime,
		College:        r.College,
		Major:          r.Major,
	}
}

// ListApprovalsQuery filters the approval listing. Paging comes from
// helpers.ParsePageView.
type ListApprovalsQuery struct {
	College string `form:"college" binding:"omitempty,max=50"`
}

// SearchApprovalsQuery searches approvals by name
type SearchApprovalsQuery struct {
	Query string `form:"q" binding:"required,max=50"`
	Count int    `form:"count" binding:"omitempty,min=0"`
}

// ApprovalListResponse wraps a page of approvals
type ApprovalListResponse struct {
	Approvals []models.Approval `json:"approvals"`
}
