package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/adapters/persistence/repositories"
	"libraease/internal/core/domain"
)

// LoanService handles borrow/return business logic
type LoanService struct {
	loans repositories.LoanRepository
	uow   repositories.UnitOfWork
}

// NewLoanService creates a new loan service
func NewLoanService(loans repositories.LoanRepository, uow repositories.UnitOfWork) *LoanService {
	return &LoanService{loans: loans, uow: uow}
}

// BorrowInput represents borrow input
type BorrowInput struct {
	BookID  uint      `json:"book_id"`
	DueDate time.Time `json:"due_date"`
}

// Borrow lends a book to a user. The stock decrement, the loan row and
// the audit entry are one transaction: either the user holds the book
// and stock reflects it, or nothing happened.
func (s *LoanService) Borrow(ctx context.Context, input *BorrowInput, userID uint) (*models.Loan, error) {
	loan := &models.Loan{
		UserID:     userID,
		BookID:     input.BookID,
		BorrowDate: time.Now(),
		DueDate:    input.DueDate,
		IsActive:   true,
	}

	err := s.uow.Do(ctx, func(r repositories.Repositories) error {
		if _, err := r.Books.GetByID(ctx, input.BookID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		_, err := r.Loans.GetActiveByUserAndBook(ctx, userID, input.BookID)
		if err == nil {
			return domain.ErrAlreadyBorrowed
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := r.Books.DecrementStock(ctx, input.BookID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookOutOfStock
			}
			return err
		}

		if err := r.Loans.Create(ctx, loan); err != nil {
			return err
		}

		return recordAudit(ctx, r.AuditLogs, domain.AuditLoanCreated, domain.EntityLoan, loan.ID, &userID,
			fmt.Sprintf("book %d borrowed by user %d", input.BookID, userID))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Loan created: user %d borrowed book %d", userID, input.BookID)
	return loan, nil
}

// Return closes a loan and puts the copy back in stock. Only the
// borrower can return their own loan.
func (s *LoanService) Return(ctx context.Context, loanID, userID uint) error {
	return s.uow.Do(ctx, func(r repositories.Repositories) error {
		loan, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.UserID != userID {
			return domain.ErrLoanNotFound
		}
		if !loan.IsActive {
			return domain.ErrLoanNotActive
		}

		now := time.Now()
		loan.IsActive = false
		loan.ReturnDate = &now
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}

		if err := r.Books.IncrementStock(ctx, loan.BookID); err != nil {
			return err
		}

		return recordAudit(ctx, r.AuditLogs, domain.AuditLoanReturned, domain.EntityLoan, loan.ID, &userID,
			fmt.Sprintf("book %d returned by user %d", loan.BookID, userID))
	})
}

// ActiveLoans lists a user's open loans
func (s *LoanService) ActiveLoans(ctx context.Context, userID uint) ([]*models.Loan, error) {
	return s.loans.ListActiveByUser(ctx, userID)
}

// History lists a user's full loan history
func (s *LoanService) History(ctx context.Context, userID uint) ([]*models.Loan, error) {
	return s.loans.ListByUser(ctx, userID)
}
