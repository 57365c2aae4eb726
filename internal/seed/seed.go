package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/freshman/internal/app/models"
	appRepos "github.com/yigit/freshman/internal/app/repositories"
	"github.com/yigit/freshman/internal/pkg/auth"
)

// DemoSecret is the secret every demo freshman is created with
const DemoSecret = "123456"

// DemoAdminUID is the identity that holds the demo approval
const DemoAdminUID int32 = 1

func strPtr(s string) *string { return &s }

// demoStudents is one dormitory room plus a few students from the same city
// and school, enough to exercise every relationship query locally.
var demoStudents = []appModels.StudentRecord{
	{StudentID: "2021000101", Ticket: "21310001", Name: "张三", College: "计算机科学与信息工程学院", Major: "软件工程",
		Campus: "奉贤", Building: "南1号楼", Room: 101, Bed: "101-1", CounselorName: "王老师", CounselorTel: "021-60870001",
		Province: strPtr("上海"), City: "上海", Postcode: 201400, GraduatedFrom: "奉贤中学", Class: "21104111", Visible: true},
	{StudentID: "2021000102", Ticket: "21310002", Name: "李四", College: "计算机科学与信息工程学院", Major: "软件工程",
		Campus: "奉贤", Building: "南1号楼", Room: 101, Bed: "101-2", CounselorName: "王老师", CounselorTel: "021-60870001",
		Province: strPtr("浙江"), City: "杭州", Postcode: 310000, GraduatedFrom: "杭州二中", Class: "21104111", Visible: true,
		Contact: []byte(`{"qq":"10001"}`)},
	{StudentID: "2021000103", Ticket: "21310003", Name: "王五", College: "计算机科学与信息工程学院", Major: "软件工程",
		Campus: "奉贤", Building: "南1号楼", Room: 102, Bed: "102-1", CounselorName: "王老师", CounselorTel: "021-60870001",
		Province: strPtr("上海"), City: "上海", Postcode: 200000, GraduatedFrom: "格致中学", Class: "21104111"},
	{StudentID: "2021000201", Ticket: "21320001", Name: "赵六", College: "电气工程学院", Major: "电气工程及其自动化",
		Campus: "奉贤", Building: "南2号楼", Room: 201, Bed: "201-1", CounselorName: "陈老师", CounselorTel: "021-60870002",
		Province: strPtr("上海"), City: "上海", Postcode: 201499, GraduatedFrom: "奉贤中学", Class: "21105121", Visible: true,
		Contact: []byte(`{"wechat":"zhaoliu"}`)},
	{StudentID: "2021000202", Ticket: "21320002", Name: "张三", College: "电气工程学院", Major: "电气工程及其自动化",
		Campus: "徐汇", Building: "1号楼", Room: 301, Bed: "301-1", CounselorName: "陈老师", CounselorTel: "021-60870002",
		Province: strPtr("江苏"), City: "苏州", Postcode: 215000, GraduatedFrom: "苏州中学", Class: "21105121", Visible: true},
}

// CreateDemoData inserts demo freshmen, a verified identity and an approval
// for local development. Records whose student id already exists are skipped.
func CreateDemoData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(dbPool)

	lgr.Info().Msg("Checking/Creating demo freshman data...")
	var finalErr error // collect errors without stopping the process

	hashed, err := auth.HashSecret(DemoSecret)
	if err != nil {
		return err
	}

	created := 0
	for i := range demoStudents {
		student := demoStudents[i]
		existing, err := repos.StudentRepository.FindByAccount(ctx, student.StudentID)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if len(existing) > 0 {
			continue
		}

		student.Secret = hashed
		id, err := repos.StudentRepository.Create(ctx, &student)
		if err != nil {
			lgr.Error().Err(err).Str("studentID", student.StudentID).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Int64("id", id).Str("studentID", student.StudentID).Msg("Demo student created")
		created++
	}

	// --- Identity and approval for the first student --- //
	first := demoStudents[0]
	identity := &appModels.IdentityCredential{
		UID:         DemoAdminUID,
		StudentID:   first.StudentID,
		Realname:    first.Name,
		OACertified: true,
	}
	inserted, err := repos.IdentityRepository.Create(ctx, identity)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo identity")
		finalErr = errors.Join(finalErr, err)
	} else if inserted {
		approvedAt := time.Now().UTC()
		approvalID, err := repos.ApprovalRepository.Create(ctx, appModels.NewApproval{
			StudentID:    first.StudentID,
			Name:         first.Name,
			ApprovedTime: &approvedAt,
			College:      first.College,
			Major:        strPtr(first.Major),
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Error creating demo approval")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Int32("approvalID", approvalID).Msg("Demo approval created")
		}
	} else {
		lgr.Info().Msg("Demo identity already exists, skipping approval")
	}

	lgr.Info().Int("students", created).Msg("Demo data check/creation finished.")
	return finalErr
}
