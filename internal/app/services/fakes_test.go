package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/app/repositories"
)

// fakeStudentStore keeps students in memory and follows the repository's
// semantics, including the conditional claim.
type fakeStudentStore struct {
	mu       sync.Mutex
	students []*models.StudentRecord
	updates  []models.ProfileUpdate
	err      error
	// beforeClaim runs inside Claim before the guard is checked.
	beforeClaim func()
}

func (f *fakeStudentStore) add(r *models.StudentRecord) *models.StudentRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = int64(len(f.students) + 1)
	f.students = append(f.students, r)
	return r
}

func (f *fakeStudentStore) snapshot(match func(*models.StudentRecord) bool) []*models.StudentRecord {
	var out []*models.StudentRecord
	for _, s := range f.students {
		if match(s) {
			c := *s
			out = append(out, &c)
		}
	}
	return out
}

func (f *fakeStudentStore) FindByAccount(_ context.Context, token string) ([]*models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return models.SortByPrecedence(f.snapshot(func(s *models.StudentRecord) bool { return s.Kind(token) != 0 }), token), nil
}

func (f *fakeStudentStore) FindBoundByAccount(_ context.Context, uid int32, token string) ([]*models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot(func(s *models.StudentRecord) bool { return s.IsBoundTo(uid) && s.Kind(token) != 0 }), nil
}

func (f *fakeStudentStore) Claim(_ context.Context, id int64, uid int32) (string, error) {
	if f.beforeClaim != nil {
		f.beforeClaim()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.ID == id && s.UID == nil {
			u := uid
			s.UID = &u
			return s.StudentID, nil
		}
	}
	return "", repositories.ErrRecordClaimed
}

func (f *fakeStudentStore) CountByName(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.snapshot(func(s *models.StudentRecord) bool { return s.Name == name }))), nil
}

func (f *fakeStudentStore) UpdateProfile(_ context.Context, id int64, update models.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.ID != id {
			continue
		}
		if update.Contact != nil {
			s.Contact = update.Contact
		}
		if update.Visible != nil {
			s.Visible = *update.Visible
		}
		if update.LastSeen != nil {
			s.LastSeen = update.LastSeen
		}
		f.updates = append(f.updates, update)
		return nil
	}
	return repositories.ErrStudentNotFound
}

func (f *fakeStudentStore) Classmates(_ context.Context, self *models.StudentRecord) ([]*models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(s *models.StudentRecord) bool { return s.Class == self.Class }), nil
}

func (f *fakeStudentStore) Roommates(_ context.Context, self *models.StudentRecord) ([]*models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(s *models.StudentRecord) bool {
		return s.Class == self.Class && s.Campus == self.Campus && s.Building == self.Building && s.Room == self.Room
	}), nil
}

// Familiar deliberately skips the name dedupe so the service's own
// filtering is exercised.
func (f *fakeStudentStore) Familiar(_ context.Context, self *models.StudentRecord, _ int32) ([]*models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.snapshot(func(s *models.StudentRecord) bool {
		if !s.Visible {
			return false
		}
		return (self.GraduatedFrom != "" && s.GraduatedFrom == self.GraduatedFrom) ||
			(self.City != "" && s.City == self.City) ||
			(self.Postcode/1000 != 0 && s.Postcode/1000 == self.Postcode/1000)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeApprovalStore struct {
	mu         sync.Mutex
	approvals  []*models.Approval
	identities []*models.IdentityCredential
	nextID     int32
}

func (f *fakeApprovalStore) certStatus(a *models.Approval) bool {
	for _, i := range f.identities {
		if i.StudentID != a.StudentID || i.Realname != a.Name {
			continue
		}
		if i.OACertified {
			return true
		}
		if a.IdentityNumber != nil && i.IdentityNumber != "" && i.IdentityNumber == *a.IdentityNumber {
			return true
		}
	}
	return false
}

func (f *fakeApprovalStore) read(a *models.Approval) *models.Approval {
	c := *a
	c.CertStatus = f.certStatus(a)
	return &c
}

func (f *fakeApprovalStore) Create(_ context.Context, n models.NewApproval) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.approvals = append(f.approvals, &models.Approval{
		ID:             f.nextID,
		StudentID:      n.StudentID,
		Name:           n.Name,
		IdentityNumber: n.IdentityNumber,
		ApprovedTime:   n.ApprovedTime,
		College:        n.College,
		Major:          n.Major,
	})
	return f.nextID, nil
}

func (f *fakeApprovalStore) GetByID(_ context.Context, id int32) (*models.Approval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.approvals {
		if a.ID == id {
			return f.read(a), nil
		}
	}
	return nil, repositories.ErrApprovalNotFound
}

func (f *fakeApprovalStore) FindCertified(_ context.Context, identity *models.IdentityCredential) (*models.Approval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.Approval
	for _, a := range f.sorted() {
		if a.StudentID != identity.StudentID || a.Name != identity.Realname || a.ApprovedTime == nil {
			continue
		}
		numbersMatch := identity.IdentityNumber != "" && a.IdentityNumber != nil && *a.IdentityNumber == identity.IdentityNumber
		if identity.OACertified || numbersMatch {
			best = a
			break
		}
	}
	if best == nil {
		return nil, repositories.ErrApprovalNotFound
	}
	return f.read(best), nil
}

// sorted orders newest first, then by id descending.
func (f *fakeApprovalStore) sorted() []*models.Approval {
	out := append([]*models.Approval(nil), f.approvals...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].ApprovedTime, out[j].ApprovedTime
		switch {
		case ti == nil && tj == nil:
		case ti == nil:
			return false
		case tj == nil:
			return true
		case !ti.Equal(*tj):
			return ti.After(*tj)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeApprovalStore) filter(match func(*models.Approval) bool, offset, limit int) []*models.Approval {
	out := make([]*models.Approval, 0)
	skipped := 0
	for _, a := range f.sorted() {
		if !match(a) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, f.read(a))
	}
	return out
}

func (f *fakeApprovalStore) List(_ context.Context, college string, offset, limit int) ([]*models.Approval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(a *models.Approval) bool { return strings.Contains(a.College, college) }, offset, limit), nil
}

func (f *fakeApprovalStore) Search(_ context.Context, name string, limit int) ([]*models.Approval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(a *models.Approval) bool { return strings.Contains(a.Name, name) }, 0, limit), nil
}

func (f *fakeApprovalStore) Delete(_ context.Context, id int32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.approvals {
		if a.ID == id {
			f.approvals = append(f.approvals[:i], f.approvals[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApprovalStore) GetByUID(_ context.Context, uid int32) (*models.IdentityCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.identities {
		if i.UID == uid {
			c := *i
			return &c, nil
		}
	}
	return nil, repositories.ErrIdentityNotFound
}
