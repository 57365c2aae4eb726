package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/freshman/internal/app/models"
	"github.com/yigit/freshman/internal/db"
	"github.com/yigit/freshman/internal/pkg/dberrors"
	"github.com/yigit/freshman/internal/pkg/logger"
)

// Student error types
var (
	ErrStudentNotFound = errors.New("student not found")
	// ErrRecordClaimed is returned when the conditional bind touched no row
	ErrRecordClaimed = errors.New("student record already claimed")
)

var studentColumns = []string{
	"id", "uid", "student_id", "ticket", "name", "secret", "college", "major",
	"campus", "building", "room", "bed", "counselor_name", "counselor_tel",
	"province", "city", "postcode", "graduated_from", "class", "visible",
	"contact", "last_seen",
}

// precedenceOrder mirrors models.SortByPrecedence so the first row returned
// is already the preferred candidate.
const precedenceOrder = "CASE WHEN student_id = ? THEN 1 WHEN ticket = ? THEN 2 ELSE 3 END"

// StudentRepository handles freshman database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func accountMatches(token string) squirrel.Or {
	return squirrel.Or{
		squirrel.Eq{"student_id": token},
		squirrel.Eq{"ticket": token},
		squirrel.Eq{"name": token},
	}
}

// FindByAccount returns every record whose student id, ticket or name equals
// token, in precedence order.
func (r *StudentRepository) FindByAccount(ctx context.Context, token string) ([]*models.StudentRecord, error) {
	query := r.sb.Select(studentColumns...).
		From("students").
		Where(accountMatches(token)).
		OrderByClause(precedenceOrder, token, token).
		OrderBy("id")

	return r.queryStudents(ctx, "find students by account", query)
}

// FindBoundByAccount returns the records matching token that uid holds, in
// precedence order.
func (r *StudentRepository) FindBoundByAccount(ctx context.Context, uid int32, token string) ([]*models.StudentRecord, error) {
	query := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"uid": uid}).
		Where(accountMatches(token)).
		OrderByClause(precedenceOrder, token, token).
		OrderBy("id")

	return r.queryStudents(ctx, "find bound students by account", query)
}

// Claim sets uid on the record if, and only if, it is still unbound. This is
// the single statement that makes binding exclusive.
func (r *StudentRepository) Claim(ctx context.Context, id int64, uid int32) (string, error) {
	sql, args, err := r.sb.Update("students").
		Set("uid", uid).
		Where(squirrel.Eq{"id": id, "uid": nil}).
		Suffix("RETURNING student_id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build claim query: %w", err)
	}

	var studentID string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&studentID); err != nil {
		if dberrors.IsNoRows(err) {
			return "", ErrRecordClaimed
		}
		logger.Error().Err(err).Int64("recordID", id).Int32("uid", uid).Msg("Error executing claim query")
		return "", dberrors.Wrap("claim student", err)
	}

	return studentID, nil
}

// Create inserts an unbound record and returns its id. Used for imports and
// demo data; the service itself never creates students.
func (r *StudentRepository) Create(ctx context.Context, s *models.StudentRecord) (int64, error) {
	var contact interface{}
	if len(s.Contact) > 0 {
		contact = string(s.Contact)
	}

	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "ticket", "name", "secret", "college", "major", "campus", "building",
			"room", "bed", "counselor_name", "counselor_tel", "province", "city", "postcode",
			"graduated_from", "class", "visible", "contact").
		Values(s.StudentID, s.Ticket, s.Name, s.Secret, s.College, s.Major, s.Campus, s.Building,
			s.Room, s.Bed, s.CounselorName, s.CounselorTel, s.Province, s.City, s.Postcode,
			s.GraduatedFrom, s.Class, s.Visible, squirrel.Expr("?::text::jsonb", contact)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("studentID", s.StudentID).Msg("Error executing create student query")
		return 0, dberrors.Wrap("create student", err)
	}
	return id, nil
}

// CountByName counts records carrying name, the caller included
func (r *StudentRepository) CountByName(ctx context.Context, name string) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("students").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, dberrors.Wrap("count students by name", err)
	}
	return count, nil
}

// UpdateProfile applies every field present in update inside one transaction
func (r *StudentRepository) UpdateProfile(ctx context.Context, id int64, update models.ProfileUpdate) error {
	var stmts []squirrel.UpdateBuilder
	if update.Contact != nil {
		stmts = append(stmts, r.sb.Update("students").
			Set("contact", squirrel.Expr("?::text::jsonb", string(update.Contact))))
	}
	if update.Visible != nil {
		stmts = append(stmts, r.sb.Update("students").Set("visible", *update.Visible))
	}
	if update.LastSeen != nil {
		stmts = append(stmts, r.sb.Update("students").Set("last_seen", *update.LastSeen))
	}
	if len(stmts) == 0 {
		return nil
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range stmts {
			sql, args, err := stmt.Where(squirrel.Eq{"id": id}).ToSql()
			if err != nil {
				return fmt.Errorf("failed to build profile update: %w", err)
			}
			tag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				return dberrors.Wrap("update student profile", err)
			}
			if tag.RowsAffected() == 0 {
				return ErrStudentNotFound
			}
		}
		return nil
	})
}

// Classmates returns every record in self's class
func (r *StudentRepository) Classmates(ctx context.Context, self *models.StudentRecord) ([]*models.StudentRecord, error) {
	query := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"class": self.Class}).
		OrderBy("student_id", "id")

	return r.queryStudents(ctx, "list classmates", query)
}

// Roommates returns the records in self's class living in the same room
func (r *StudentRepository) Roommates(ctx context.Context, self *models.StudentRecord) ([]*models.StudentRecord, error) {
	query := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{
			"class":    self.Class,
			"campus":   self.Campus,
			"building": self.Building,
			"room":     self.Room,
		}).
		OrderBy("bed", "id")

	return r.queryStudents(ctx, "list roommates", query)
}

// Familiar returns visible students, one per name, who went to the same
// school as self, live in the same city, or share a postcode prefix. Empty
// attributes on self never match.
func (r *StudentRepository) Familiar(ctx context.Context, self *models.StudentRecord, uid int32) ([]*models.StudentRecord, error) {
	near := squirrel.Or{}
	if strings.TrimSpace(self.GraduatedFrom) != "" {
		near = append(near, squirrel.Eq{"graduated_from": self.GraduatedFrom})
	}
	if strings.TrimSpace(self.City) != "" {
		near = append(near, squirrel.Eq{"city": self.City})
	}
	if self.Postcode/1000 != 0 {
		near = append(near, squirrel.Expr("postcode / 1000 = ?", self.Postcode/1000))
	}
	if len(near) == 0 {
		return []*models.StudentRecord{}, nil
	}

	query := r.sb.Select(studentColumns...).
		Options("DISTINCT ON (name)").
		From("students").
		Where(squirrel.Eq{"visible": true}).
		Where(squirrel.NotEq{"id": self.ID}).
		Where(squirrel.Or{squirrel.Eq{"uid": nil}, squirrel.NotEq{"uid": uid}}).
		Where(near).
		OrderBy("name", "id")

	return r.queryStudents(ctx, "list familiar students", query)
}

func (r *StudentRepository) queryStudents(ctx context.Context, op string, query squirrel.SelectBuilder) ([]*models.StudentRecord, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building student SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing student query")
		return nil, dberrors.Wrap(op, err)
	}
	defer rows.Close()

	students := make([]*models.StudentRecord, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, dberrors.Wrap(op, err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(op, err)
	}

	return students, nil
}

func scanStudent(row pgx.Row) (*models.StudentRecord, error) {
	var s models.StudentRecord
	var contact []byte
	err := row.Scan(
		&s.ID, &s.UID, &s.StudentID, &s.Ticket, &s.Name, &s.Secret,
		&s.College, &s.Major, &s.Campus, &s.Building, &s.Room, &s.Bed,
		&s.CounselorName, &s.CounselorTel, &s.Province, &s.City, &s.Postcode,
		&s.GraduatedFrom, &s.Class, &s.Visible, &contact, &s.LastSeen,
	)
	if err != nil {
		return nil, err
	}
	if contact != nil {
		s.Contact = contact
	}
	return &s, nil
}
