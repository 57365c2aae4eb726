package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/app/repositories"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/helpers"
	"github.com/yigit/freshman/internal/pkg/logger"
	"github.com/yigit/freshman/internal/pkg/metrics"
)

// ApprovalStore is the persistence the approval workflow needs
type ApprovalStore interface {
	Create(ctx context.Context, approval models.NewApproval) (int32, error)
	GetByID(ctx context.Context, id int32) (*models.Approval, error)
	FindCertified(ctx context.Context, identity *models.IdentityCredential) (*models.Approval, error)
	List(ctx context.Context, college string, offset, limit int) ([]*models.Approval, error)
	Search(ctx context.Context, name string, limit int) ([]*models.Approval, error)
	Delete(ctx context.Context, id int32) (bool, error)
}

// IdentityStore reads verified identities
type IdentityStore interface {
	GetByUID(ctx context.Context, uid int32) (*models.IdentityCredential, error)
}

// ApprovalService handles the real-identity approval workflow
type ApprovalService struct {
	approvals   ApprovalStore
	identities  IdentityStore
	metrics     *metrics.Metrics
	maxPageSize int
	now         func() time.Time
}

// NewApprovalService creates a new approval service instance
func NewApprovalService(approvals ApprovalStore, identities IdentityStore, m *metrics.Metrics, maxPageSize int) *ApprovalService {
	if maxPageSize <= 0 || maxPageSize > helpers.MaxPageSize {
		maxPageSize = helpers.MaxPageSize
	}
	return &ApprovalService{
		approvals:   approvals,
		identities:  identities,
		metrics:     m,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

// Submit records an approval. The stored row is read back so the returned
// certification status reflects identities as they are now.
func (s *ApprovalService) Submit(ctx context.Context, approval models.NewApproval) (*models.Approval, error) {
	approval.StudentID = strings.TrimSpace(approval.StudentID)
	approval.Name = strings.TrimSpace(approval.Name)
	if approval.StudentID == "" || approval.Name == "" {
		return nil, apperrors.NewBadRequestError("studentId and name are required")
	}
	if approval.ApprovedTime == nil {
		now := s.now()
		approval.ApprovedTime = &now
	}

	id, err := s.approvals.Create(ctx, approval)
	if err != nil {
		return nil, fmt.Errorf("error creating approval: %w", err)
	}
	s.metrics.IncrementApproval("submit")
	logger.Info().Int32("approvalID", id).Str("studentID", approval.StudentID).Msg("Approval submitted")

	created, err := s.approvals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reading back approval: %w", err)
	}
	return created, nil
}

// QueryByUID returns the newest certified approval for uid's identity
func (s *ApprovalService) QueryByUID(ctx context.Context, uid int32) (*models.Approval, error) {
	identity, err := s.identities.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrIdentityNotFound) {
			return nil, apperrors.ErrIdentityNeeded
		}
		return nil, fmt.Errorf("error reading identity: %w", err)
	}

	approval, err := s.approvals.FindCertified(ctx, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrApprovalNotFound) {
			return nil, apperrors.ErrNoSuchApprovalRecord
		}
		return nil, fmt.Errorf("error querying approval: %w", err)
	}
	return approval, nil
}

// List returns one page of approvals, optionally filtered by college
func (s *ApprovalService) List(ctx context.Context, college string, page helpers.PageView) ([]*models.Approval, error) {
	approvals, err := s.approvals.List(ctx, strings.TrimSpace(college), page.Start(), page.Limit(s.maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("error listing approvals: %w", err)
	}
	return approvals, nil
}

// Search returns approvals whose name contains query
func (s *ApprovalService) Search(ctx context.Context, query string, count int) ([]*models.Approval, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewBadRequestError("search query is required")
	}

	approvals, err := s.approvals.Search(ctx, query, helpers.PageView{Count: count}.Limit(s.maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("error searching approvals: %w", err)
	}
	return approvals, nil
}

// Delete removes an approval; a missing id is not an error
func (s *ApprovalService) Delete(ctx context.Context, id int32) error {
	removed, err := s.approvals.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting approval: %w", err)
	}
	if removed {
		s.metrics.IncrementApproval("delete")
	}
	logger.Info().Int32("approvalID", id).Bool("removed", removed).Msg("Approval deleted")
	return nil
}
