package repositories

import (
	"context"
	"time"

	"libraease/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetActiveByID(ctx context.Context, id uint) (*models.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)
	// LockActiveByID loads the user row under a row-level write lock.
	// Meaningful only inside a unit of work; it serializes concurrent
	// refresh-token issuance and rotation for one user.
	LockActiveByID(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ListActive(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsActiveByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
}

// RoleRepository defines role repository interface. Roles are immutable
// reference data seeded at startup.
type RoleRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
}

// RefreshTokenRepository defines refresh token repository interface.
// Tokens are looked up and stored by SHA-256 digest, never by raw value.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetActiveByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	// Revoke marks one still-active token revoked. Returns
	// gorm.ErrRecordNotFound when no active row matched, so a racing
	// rotation that lost can fail cleanly.
	Revoke(ctx context.Context, id uint) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	RevokeExpired(ctx context.Context, now time.Time) (int64, error)
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}

// AuditLogRepository appends immutable audit records. There is no update
// or delete on purpose.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	// DecrementStock conditionally takes one copy; returns
	// gorm.ErrRecordNotFound when the book is missing or out of stock.
	DecrementStock(ctx context.Context, id uint) error
	IncrementStock(ctx context.Context, id uint) error
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	GetActiveByUserAndBook(ctx context.Context, userID, bookID uint) (*models.Loan, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]*models.Loan, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
	HasActiveByUser(ctx context.Context, userID uint) (bool, error)
	Update(ctx context.Context, loan *models.Loan) error
}
