package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appauth "github.com/yigit/freshman/internal/app/auth"
	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/app/repositories"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/logger"
	"github.com/yigit/freshman/internal/pkg/metrics"
)

// StudentStore is the persistence the freshman service needs
type StudentStore interface {
	appauth.BoundAccountFinder
	FindByAccount(ctx context.Context, token string) ([]*models.StudentRecord, error)
	Claim(ctx context.Context, id int64, uid int32) (string, error)
	CountByName(ctx context.Context, name string) (int64, error)
	UpdateProfile(ctx context.Context, id int64, update models.ProfileUpdate) error
	Classmates(ctx context.Context, self *models.StudentRecord) ([]*models.StudentRecord, error)
	Roommates(ctx context.Context, self *models.StudentRecord) ([]*models.StudentRecord, error)
	Familiar(ctx context.Context, self *models.StudentRecord, uid int32) ([]*models.StudentRecord, error)
}

// Profile is a student's own record plus how many others share the name
type Profile struct {
	Me            models.FreshmanBasic
	SameNameCount int64
}

// FreshmanService handles account binding and freshman lookups
type FreshmanService struct {
	students StudentStore
	authz    *appauth.AuthorizationService
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewFreshmanService creates a new freshman service instance
func NewFreshmanService(students StudentStore, authz *appauth.AuthorizationService, m *metrics.Metrics) *FreshmanService {
	return &FreshmanService{
		students: students,
		authz:    authz,
		metrics:  m,
		now:      time.Now,
	}
}

// Resolve finds the record an account token and secret identify. A token
// that matches nothing yields ErrNoSuchAccount; a wrong secret yields
// ErrSecretMismatch, which carries the same wire code.
func (s *FreshmanService) Resolve(ctx context.Context, token, secret string) (*models.StudentRecord, error) {
	candidates, err := s.students.FindByAccount(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error resolving account: %w", err)
	}
	if len(candidates) == 0 {
		return nil, apperrors.ErrNoSuchAccount
	}

	record, ok := models.ResolveAccount(candidates, token, secret)
	if !ok {
		return nil, apperrors.ErrSecretMismatch
	}
	return record, nil
}

// IsAccountBound reports whether the account identified by token and secret
// is held by anyone. Unknown accounts are reported as unbound.
func (s *FreshmanService) IsAccountBound(ctx context.Context, token, secret string) (bool, error) {
	record, err := s.Resolve(ctx, token, secret)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSuchAccount) {
			return false, nil
		}
		return false, err
	}
	return record.IsBound(), nil
}

// IsIdentityBoundWith reports whether uid holds the account named by token.
// No secret is involved.
func (s *FreshmanService) IsIdentityBoundWith(ctx context.Context, uid int32, token string) (bool, error) {
	return s.authz.IsIdentityBoundWith(ctx, uid, token)
}

// Bind claims the account for uid and returns its student id. Binding an
// account uid already holds is a no-op.
func (s *FreshmanService) Bind(ctx context.Context, uid int32, token, secret string) (string, error) {
	record, err := s.bind(ctx, uid, token, secret)
	if err != nil {
		return "", err
	}
	return record.StudentID, nil
}

func (s *FreshmanService) bind(ctx context.Context, uid int32, token, secret string) (*models.StudentRecord, error) {
	record, err := s.Resolve(ctx, token, secret)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSuchAccount) {
			s.metrics.IncrementBind(metrics.BindNoAccount)
		}
		return nil, err
	}

	// Advisory only: it picks the error message, the claim below decides.
	if record.IsBoundTo(uid) {
		s.metrics.IncrementBind(metrics.BindAlreadyMine)
		return record, nil
	}
	if record.IsBound() {
		s.metrics.IncrementBind(metrics.BindAlreadyTaken)
		return nil, apperrors.ErrAlreadyBound
	}

	if _, err := s.students.Claim(ctx, record.ID, uid); err != nil {
		if errors.Is(err, repositories.ErrRecordClaimed) {
			logger.Warn().Int32("uid", uid).Str("studentID", record.StudentID).Msg("Lost bind race")
			s.metrics.IncrementBind(metrics.BindLostRace)
			return nil, apperrors.ErrAlreadyBound
		}
		return nil, fmt.Errorf("error binding account: %w", err)
	}

	s.metrics.IncrementBind(metrics.BindBound)
	logger.Info().Int32("uid", uid).Str("studentID", record.StudentID).Msg("Freshman account bound")

	bound := *record
	bound.UID = &uid
	return &bound, nil
}

// Profile returns the caller's own record, binding it first when uid does not
// hold it yet. Binding needs the secret.
func (s *FreshmanService) Profile(ctx context.Context, uid int32, token, secret string) (*Profile, error) {
	self, ok, err := s.authz.BoundRecord(ctx, uid, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		if secret == "" {
			return nil, apperrors.ErrSecretRequired
		}
		if self, err = s.bind(ctx, uid, token, secret); err != nil {
			return nil, err
		}
	}

	count, err := s.students.CountByName(ctx, self.Name)
	if err != nil {
		return nil, fmt.Errorf("error counting same-name students: %w", err)
	}
	if count > 0 {
		count--
	}

	return &Profile{Me: self.Basic(), SameNameCount: count}, nil
}

// ProfileChanges is what a student may change about their own record.
// Contact is a JSON document; TouchLastSeen stamps last_seen with now.
type ProfileChanges struct {
	Contact       *string
	Visible       *bool
	TouchLastSeen bool
}

// UpdateProfile applies changes to the caller's own record
func (s *FreshmanService) UpdateProfile(ctx context.Context, uid int32, token string, changes ProfileChanges) error {
	self, err := s.authz.ValidateAccountOwnership(ctx, uid, token)
	if err != nil {
		return err
	}

	var update models.ProfileUpdate
	if changes.Contact != nil {
		if !json.Valid([]byte(*changes.Contact)) {
			return apperrors.NewBadRequestError("contact must be a JSON document")
		}
		update.Contact = json.RawMessage(*changes.Contact)
	}
	update.Visible = changes.Visible
	if changes.TouchLastSeen {
		now := s.now()
		update.LastSeen = &now
	}
	if update.IsEmpty() {
		return nil
	}

	if err := s.students.UpdateProfile(ctx, self.ID, update); err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// Classmates lists the students in the caller's class
func (s *FreshmanService) Classmates(ctx context.Context, uid int32, token string) ([]models.Mate, error) {
	self, err := s.authz.ValidateAccountOwnership(ctx, uid, token)
	if err != nil {
		return nil, err
	}

	records, err := s.students.Classmates(ctx, self)
	if err != nil {
		return nil, fmt.Errorf("error listing classmates: %w", err)
	}
	return toMates(records), nil
}

// Roommates lists the students sharing the caller's room
func (s *FreshmanService) Roommates(ctx context.Context, uid int32, token string) ([]models.Mate, error) {
	self, err := s.authz.ValidateAccountOwnership(ctx, uid, token)
	if err != nil {
		return nil, err
	}

	records, err := s.students.Roommates(ctx, self)
	if err != nil {
		return nil, fmt.Errorf("error listing roommates: %w", err)
	}
	return toMates(records), nil
}

// Familiar lists visible students the caller might know, one per name
func (s *FreshmanService) Familiar(ctx context.Context, uid int32, token string) ([]models.Familiar, error) {
	self, err := s.authz.ValidateAccountOwnership(ctx, uid, token)
	if err != nil {
		return nil, err
	}

	records, err := s.students.Familiar(ctx, self, uid)
	if err != nil {
		return nil, fmt.Errorf("error listing familiar students: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	fellows := make([]models.Familiar, 0, len(records))
	for _, r := range records {
		if r.ID == self.ID || r.IsBoundTo(uid) {
			continue
		}
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		fellows = append(fellows, r.Familiar())
	}
	return fellows, nil
}

func toMates(records []*models.StudentRecord) []models.Mate {
	mates := make([]models.Mate, 0, len(records))
	for _, r := range records {
		mates = append(mates, r.Mate())
	}
	return mates
}
