package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/pkg/apperrors"
	"github.com/yigit/freshman/internal/pkg/helpers"
	"github.com/yigit/freshman/internal/pkg/metrics"
)

type ApprovalServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *fakeApprovalStore
	service *ApprovalService
	now     time.Time
}

func TestApprovalServiceSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceSuite))
}

func (s *ApprovalServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2020, 9, 1, 8, 0, 0, 0, time.UTC)
	s.store = &fakeApprovalStore{}
	s.service = NewApprovalService(s.store, s.store, metrics.New(), 0)
	s.service.now = func() time.Time { return s.now }
}

func strPtr(v string) *string { return &v }

func (s *ApprovalServiceSuite) TestSubmit() {
	s.Run("defaults approved time to now", func() {
		got, err := s.service.Submit(s.ctx, models.NewApproval{StudentID: "2020001", Name: "Alice", College: "CS"})
		s.Require().NoError(err)
		s.Require().NotNil(got.ApprovedTime)
		s.True(got.ApprovedTime.Equal(s.now))
		s.False(got.CertStatus)
	})

	s.Run("read back reflects current identities", func() {
		s.store.identities = append(s.store.identities, &models.IdentityCredential{
			UID: 7, StudentID: "2020002", Realname: "Bob", IdentityNumber: "310101200001011234",
		})

		got, err := s.service.Submit(s.ctx, models.NewApproval{
			StudentID: "2020002", Name: "Bob", College: "CS", IdentityNumber: strPtr("310101200001011234"),
		})
		s.Require().NoError(err)
		s.True(got.CertStatus)
	})

	s.Run("requires student id and name", func() {
		_, err := s.service.Submit(s.ctx, models.NewApproval{StudentID: " ", Name: "Alice"})
		s.ErrorIs(err, apperrors.ErrBadRequest)
	})
}

func (s *ApprovalServiceSuite) TestQueryByUID() {
	s.Run("no identity", func() {
		_, err := s.service.QueryByUID(s.ctx, 42)
		s.ErrorIs(err, apperrors.ErrIdentityNeeded)
	})

	s.store.identities = append(s.store.identities, &models.IdentityCredential{UID: 42, StudentID: "2020001", Realname: "Alice"})

	s.Run("identity without approval", func() {
		_, err := s.service.QueryByUID(s.ctx, 42)
		s.ErrorIs(err, apperrors.ErrNoSuchApprovalRecord)
	})

	submitted, err := s.service.Submit(s.ctx, models.NewApproval{StudentID: "2020001", Name: "Alice", College: "CS"})
	s.Require().NoError(err)
	s.False(submitted.CertStatus)

	s.Run("uncertified identity still has no record", func() {
		_, err := s.service.QueryByUID(s.ctx, 42)
		s.ErrorIs(err, apperrors.ErrNoSuchApprovalRecord)
	})

	s.Run("certification after submit is seen on read", func() {
		s.store.identities[0].OACertified = true

		got, err := s.service.QueryByUID(s.ctx, 42)
		s.Require().NoError(err)
		s.Equal(submitted.ID, got.ID)
		s.True(got.CertStatus)
	})

	s.Run("null approval time never matches", func() {
		s.store.identities = append(s.store.identities, &models.IdentityCredential{UID: 43, StudentID: "2020003", Realname: "Carol", OACertified: true})
		_, err := s.store.Create(s.ctx, models.NewApproval{StudentID: "2020003", Name: "Carol", College: "CS"})
		s.Require().NoError(err)

		_, err = s.service.QueryByUID(s.ctx, 43)
		s.ErrorIs(err, apperrors.ErrNoSuchApprovalRecord)
	})
}

func (s *ApprovalServiceSuite) TestListPagination() {
	for i := 0; i < 120; i++ {
		at := s.now.Add(time.Duration(i) * time.Minute)
		college := "计算机学院"
		if i%2 == 1 {
			college = "电气学院"
		}
		_, err := s.service.Submit(s.ctx, models.NewApproval{
			StudentID: fmt.Sprintf("2020%03d", i), Name: fmt.Sprintf("student-%d", i), College: college, ApprovedTime: &at,
		})
		s.Require().NoError(err)
	}

	first, err := s.service.List(s.ctx, "", helpers.PageView{Offset: 0, Count: 50})
	s.Require().NoError(err)
	s.Len(first, 50)
	for i := 1; i < len(first); i++ {
		s.False(first[i].ApprovedTime.After(*first[i-1].ApprovedTime))
	}

	second, err := s.service.List(s.ctx, "", helpers.PageView{Offset: 50, Count: 50})
	s.Require().NoError(err)
	seen := make(map[int32]bool)
	for _, a := range first {
		seen[a.ID] = true
	}
	for _, a := range second {
		s.False(seen[a.ID], "record %d repeated across pages", a.ID)
	}

	s.Run("count is capped", func() {
		page, err := s.service.List(s.ctx, "", helpers.PageView{Count: 500})
		s.Require().NoError(err)
		s.Len(page, helpers.MaxPageSize)
	})

	s.Run("college filter is a substring match", func() {
		page, err := s.service.List(s.ctx, "电气", helpers.PageView{Count: 50})
		s.Require().NoError(err)
		s.Len(page, 50)
		for _, a := range page {
			s.Equal("电气学院", a.College)
		}
	})
}

func (s *ApprovalServiceSuite) TestSearchAndDelete() {
	for _, name := range []string{"王小明", "王大明", "李雷"} {
		_, err := s.service.Submit(s.ctx, models.NewApproval{StudentID: "x", Name: name, College: "CS"})
		s.Require().NoError(err)
	}

	found, err := s.service.Search(s.ctx, "明", 10)
	s.Require().NoError(err)
	s.Len(found, 2)

	_, err = s.service.Search(s.ctx, "  ", 10)
	s.ErrorIs(err, apperrors.ErrBadRequest)

	s.Require().NoError(s.service.Delete(s.ctx, found[0].ID))
	s.Require().NoError(s.service.Delete(s.ctx, found[0].ID))

	found, err = s.service.Search(s.ctx, "明", 10)
	s.Require().NoError(err)
	s.Len(found, 1)
}
