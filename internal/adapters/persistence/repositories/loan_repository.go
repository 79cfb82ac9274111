package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"libraease/internal/adapters/persistence/models"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).Preload("Book").First(&loan, id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetActiveByUserAndBook gets the active loan a user holds on a book
func (r *loanRepository) GetActiveByUserAndBook(ctx context.Context, userID, bookID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("book_id = ?", bookID).
		Where("is_active = ?", true).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListActiveByUser lists a user's active loans
func (r *loanRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Order("due_date ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// ListByUser lists a user's full loan history
func (r *loanRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// ListOverdue lists active loans past their due date
func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("due_date < ?", asOf).
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// HasActiveByUser reports whether a user has any active loan
func (r *loanRepository) HasActiveByUser(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Count(&count).Error
	return count > 0, err
}

// Update saves changes to a loan
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}
