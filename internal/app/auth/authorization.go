package auth

import (
	"context"
	"fmt"

	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/logger"
)

// BoundAccountFinder looks up the records an identity holds
type BoundAccountFinder interface {
	FindBoundByAccount(ctx context.Context, uid int32, token string) ([]*models.StudentRecord, error)
}

// AuthorizationService decides whether an identity may act on an account
type AuthorizationService struct {
	students BoundAccountFinder
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(students BoundAccountFinder) *AuthorizationService {
	return &AuthorizationService{
		students: students,
	}
}

// BoundRecord returns the record matched by token that uid holds, using the
// same precedence as account resolution. The secret is not consulted.
func (s *AuthorizationService) BoundRecord(ctx context.Context, uid int32, token string) (*models.StudentRecord, bool, error) {
	candidates, err := s.students.FindBoundByAccount(ctx, uid, token)
	if err != nil {
		logger.Error().Err(err).Int32("uid", uid).Msg("Error looking up bound account")
		return nil, false, fmt.Errorf("failed to check account binding: %w", err)
	}

	record, ok := models.FirstBoundTo(candidates, token, uid)
	return record, ok, nil
}

// IsIdentityBoundWith reports whether uid holds the account named by token
func (s *AuthorizationService) IsIdentityBoundWith(ctx context.Context, uid int32, token string) (bool, error) {
	_, ok, err := s.BoundRecord(ctx, uid, token)
	return ok, err
}

// ValidateAccountOwnership returns the caller's own record or ErrAccountMismatch
func (s *AuthorizationService) ValidateAccountOwnership(ctx context.Context, uid int32, token string) (*models.StudentRecord, error) {
	record, ok, err := s.BoundRecord(ctx, uid, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrAccountMismatch
	}
	return record, nil
}
