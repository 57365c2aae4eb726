package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances. They share one pool.
type Repositories struct {
	StudentRepository  *StudentRepository
	ApprovalRepository *ApprovalRepository
	IdentityRepository *IdentityRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:  NewStudentRepository(db),
		ApprovalRepository: NewApprovalRepository(db),
		IdentityRepository: NewIdentityRepository(db),
	}
}
