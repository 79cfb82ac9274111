package services_test

import (
	"context"
	"time"

	"gorm.io/gorm"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/adapters/persistence/repositories"
)

// In-memory fakes for the repository interfaces. The fake unit of work
// has no rollback; tests only assert on committed state and error paths
// that never reach the store.

type fakeStore struct {
	users  *fakeUserRepo
	roles  *fakeRoleRepo
	tokens *fakeRefreshTokenRepo
	audits *fakeAuditRepo
	books  *fakeBookRepo
	loans  *fakeLoanRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  &fakeUserRepo{users: map[uint]*models.User{}},
		roles:  &fakeRoleRepo{roles: map[uint]*models.Role{}},
		tokens: &fakeRefreshTokenRepo{},
		audits: &fakeAuditRepo{},
		books:  &fakeBookRepo{books: map[uint]*models.Book{}},
		loans:  &fakeLoanRepo{},
	}
}

func (s *fakeStore) repos() repositories.Repositories {
	return repositories.Repositories{
		Users:         s.users,
		Roles:         s.roles,
		RefreshTokens: s.tokens,
		AuditLogs:     s.audits,
		Books:         s.books,
		Loans:         s.loans,
	}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(r repositories.Repositories) error) error {
	return fn(u.store.repos())
}

// ---- users ----

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetActiveByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetActiveByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email && user.IsActive {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) LockActiveByID(ctx context.Context, id uint) (*models.User, error) {
	return r.GetActiveByID(ctx, id)
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ListActive(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var out []*models.User
	for _, user := range r.users {
		if user.IsActive {
			out = append(out, user)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsActiveByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	for _, user := range r.users {
		if user.Email == email && user.IsActive && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ---- roles ----

type fakeRoleRepo struct {
	roles map[uint]*models.Role
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id uint) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*models.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ---- refresh tokens ----

type fakeRefreshTokenRepo struct {
	rows   []*models.RefreshToken
	nextID uint
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	r.rows = append(r.rows, token)
	return nil
}

func (r *fakeRefreshTokenRepo) GetActiveByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	for _, row := range r.rows {
		if row.TokenHash == hash && row.RevokedAt == nil {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	for _, row := range r.rows {
		if row.ID == id && row.RevokedAt == nil {
			now := time.Now()
			row.RevokedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, row := range r.rows {
		if row.UserID == userID && row.RevokedAt == nil {
			row.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeExpired(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.RevokedAt == nil && row.ExpiresAt.Before(now) {
			at := now
			row.RevokedAt = &at
			count++
		}
	}
	return count, nil
}

func (r *fakeRefreshTokenRepo) CountActiveByUserID(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.UserID == userID && row.RevokedAt == nil && row.ExpiresAt.After(time.Now()) {
			count++
		}
	}
	return count, nil
}

// ---- audit logs ----

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	entry.ID = uint(len(r.entries) + 1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ListRecent(_ context.Context, limit int) ([]*models.AuditLog, error) {
	out := make([]*models.AuditLog, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeAuditRepo) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// ---- books ----

type fakeBookRepo struct {
	books  map[uint]*models.Book
	nextID uint
}

func (r *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	r.nextID++
	book.ID = r.nextID
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uint) (*models.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return book, nil
}

func (r *fakeBookRepo) Update(_ context.Context, book *models.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.books[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(_ context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var out []*models.Book
	for _, book := range r.books {
		out = append(out, book)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	for _, book := range r.books {
		if book.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookRepo) DecrementStock(_ context.Context, id uint) error {
	book, ok := r.books[id]
	if !ok || book.Stock <= 0 {
		return gorm.ErrRecordNotFound
	}
	book.Stock--
	return nil
}

func (r *fakeBookRepo) IncrementStock(_ context.Context, id uint) error {
	book, ok := r.books[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	book.Stock++
	return nil
}

// ---- loans ----

type fakeLoanRepo struct {
	loans  []*models.Loan
	nextID uint
}

func (r *fakeLoanRepo) Create(_ context.Context, loan *models.Loan) error {
	r.nextID++
	loan.ID = r.nextID
	r.loans = append(r.loans, loan)
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	for _, loan := range r.loans {
		if loan.ID == id {
			return loan, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoanRepo) GetActiveByUserAndBook(_ context.Context, userID, bookID uint) (*models.Loan, error) {
	for _, loan := range r.loans {
		if loan.UserID == userID && loan.BookID == bookID && loan.IsActive {
			return loan, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLoanRepo) ListActiveByUser(_ context.Context, userID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if loan.UserID == userID && loan.IsActive {
			out = append(out, loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListByUser(_ context.Context, userID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if loan.UserID == userID {
			out = append(out, loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListOverdue(_ context.Context, asOf time.Time) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if loan.IsActive && loan.DueDate.Before(asOf) {
			out = append(out, loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) HasActiveByUser(_ context.Context, userID uint) (bool, error) {
	for _, loan := range r.loans {
		if loan.UserID == userID && loan.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, loan *models.Loan) error {
	for i, existing := range r.loans {
		if existing.ID == loan.ID {
			r.loans[i] = loan
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
