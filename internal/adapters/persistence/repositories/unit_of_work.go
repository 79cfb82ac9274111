package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to one database handle.
// Inside a unit of work the handle is the open transaction, so a domain
// mutation and its audit record commit or roll back together.
type Repositories struct {
	Users         UserRepository
	Roles         RoleRepository
	RefreshTokens RefreshTokenRepository
	AuditLogs     AuditLogRepository
	Books         BookRepository
	Loans         LoanRepository
}

// NewRepositories creates all repositories on the given handle.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         NewUserRepository(db),
		Roles:         NewRoleRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		AuditLogs:     NewAuditLogRepository(db),
		Books:         NewBookRepository(db),
		Loans:         NewLoanRepository(db),
	}
}

// UnitOfWork runs a function against a single transaction. Returning an
// error rolls everything back; nil commits.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a GORM-backed unit of work.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(r Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
