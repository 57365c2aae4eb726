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
	"github.com/yigit/freshman/internal/pkg/dberrors"
	"github.com/yigit/freshman/internal/pkg/logger"
)

// Approval error types
var (
	ErrApprovalNotFound = errors.New("approval not found")
	ErrIdentityNotFound = errors.New("identity not found")
)

// certStatusColumn derives the certification flag on every read. An approval
// counts as certified when an identity with the same student id and real name
// is officially certified or carries the same non-empty identity number.
const certStatusColumn = `EXISTS (
		SELECT 1 FROM identities i
		WHERE i.student_id = a.student_id AND i.realname = a.name
		AND (i.oa_certified OR (i.identity_number = a.identity_number AND length(i.identity_number) <> 0))
	) AS cert_status`

var approvalColumns = []string{
	"a.id", "a.student_id", "a.name", "a.identity_number", "a.approved_time",
	"a.college", "a.major", certStatusColumn,
}

// ApprovalRepository handles approval database operations
type ApprovalRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ApprovalRepository) selectApprovals() squirrel.SelectBuilder {
	return r.sb.Select(approvalColumns...).From("approvals a")
}

// Create inserts an approval and returns its serial id
func (r *ApprovalRepository) Create(ctx context.Context, approval models.NewApproval) (int32, error) {
	sql, args, err := r.sb.Insert("approvals").
		Columns("student_id", "name", "identity_number", "approved_time", "college", "major").
		Values(approval.StudentID, approval.Name, approval.IdentityNumber, approval.ApprovedTime, approval.College, approval.Major).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create approval query: %w", err)
	}

	var id int32
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("studentID", approval.StudentID).Msg("Error executing create approval query")
		return 0, dberrors.Wrap("create approval", err)
	}

	return id, nil
}

// GetByID retrieves an approval by id
func (r *ApprovalRepository) GetByID(ctx context.Context, id int32) (*models.Approval, error) {
	sql, args, err := r.selectApprovals().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get approval query: %w", err)
	}

	approval, err := scanApproval(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrApprovalNotFound
		}
		return nil, dberrors.Wrap("get approval", err)
	}
	return approval, nil
}

// FindCertified returns the newest timestamped approval for the identity's
// student id and real name that the identity certifies.
func (r *ApprovalRepository) FindCertified(ctx context.Context, identity *models.IdentityCredential) (*models.Approval, error) {
	certified := squirrel.Or{squirrel.Expr("?::boolean", identity.OACertified)}
	if identity.IdentityNumber != "" {
		certified = append(certified, squirrel.Eq{"a.identity_number": identity.IdentityNumber})
	}

	sql, args, err := r.selectApprovals().
		Where(squirrel.Eq{"a.student_id": identity.StudentID, "a.name": identity.Realname}).
		Where(squirrel.NotEq{"a.approved_time": nil}).
		Where(certified).
		OrderBy("a.approved_time DESC", "a.id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build certified approval query: %w", err)
	}

	approval, err := scanApproval(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrApprovalNotFound
		}
		return nil, dberrors.Wrap("find certified approval", err)
	}
	return approval, nil
}

// List returns a page of approvals whose college contains college, newest first
func (r *ApprovalRepository) List(ctx context.Context, college string, offset, limit int) ([]*models.Approval, error) {
	query := r.selectApprovals()
	if college != "" {
		query = query.Where(squirrel.Like{"a.college": "%" + escapeLike(college) + "%"})
	}
	query = query.OrderBy("a.approved_time DESC NULLS LAST", "a.id DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	return r.queryApprovals(ctx, "list approvals", query)
}

// Search returns up to limit approvals whose name contains name, newest first
func (r *ApprovalRepository) Search(ctx context.Context, name string, limit int) ([]*models.Approval, error) {
	query := r.selectApprovals().
		Where(squirrel.Like{"a.name": "%" + escapeLike(name) + "%"}).
		OrderBy("a.approved_time DESC NULLS LAST", "a.id DESC").
		Limit(uint64(limit))

	return r.queryApprovals(ctx, "search approvals", query)
}

// Delete removes an approval. Deleting a missing id is not an error.
func (r *ApprovalRepository) Delete(ctx context.Context, id int32) (bool, error) {
	sql, args, err := r.sb.Delete("approvals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete approval query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int32("approvalID", id).Msg("Error executing delete approval query")
		return false, dberrors.Wrap("delete approval", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ApprovalRepository) queryApprovals(ctx context.Context, op string, query squirrel.SelectBuilder) ([]*models.Approval, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing approval query")
		return nil, dberrors.Wrap(op, err)
	}
	defer rows.Close()

	approvals := make([]*models.Approval, 0)
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, dberrors.Wrap(op, err)
		}
		approvals = append(approvals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(op, err)
	}
	return approvals, nil
}

func scanApproval(row pgx.Row) (*models.Approval, error) {
	var a models.Approval
	if err := row.Scan(
		&a.ID, &a.StudentID, &a.Name, &a.IdentityNumber, &a.ApprovedTime,
		&a.College, &a.Major, &a.CertStatus,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// IdentityRepository reads verified identities
type IdentityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByUID retrieves the identity held by uid
func (r *IdentityRepository) GetByUID(ctx context.Context, uid int32) (*models.IdentityCredential, error) {
	sql, args, err := r.sb.Select("uid", "student_id", "realname", "identity_number", "oa_certified").
		From("identities").
		Where(squirrel.Eq{"uid": uid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get identity query: %w", err)
	}

	var identity models.IdentityCredential
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&identity.UID, &identity.StudentID, &identity.Realname, &identity.IdentityNumber, &identity.OACertified)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, dberrors.Wrap("get identity", err)
	}
	return &identity, nil
}

// Create stores an identity. It reports false when uid already has one.
func (r *IdentityRepository) Create(ctx context.Context, identity *models.IdentityCredential) (bool, error) {
	sql, args, err := r.sb.Insert("identities").
		Columns("uid", "student_id", "realname", "identity_number", "oa_certified").
		Values(identity.UID, identity.StudentID, identity.Realname, identity.IdentityNumber, identity.OACertified).
		Suffix("ON CONFLICT (uid) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build create identity query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, dberrors.Wrap("create identity", err)
	}
	return tag.RowsAffected() > 0, nil
}
