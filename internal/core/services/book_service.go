package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/adapters/persistence/repositories"
	"libraease/internal/core/domain"
)

// BookService handles book catalog business logic
type BookService struct {
	books repositories.BookRepository
	uow   repositories.UnitOfWork
}

// NewBookService creates a new book service
func NewBookService(books repositories.BookRepository, uow repositories.UnitOfWork) *BookService {
	return &BookService{books: books, uow: uow}
}

// CreateBookInput represents book creation input
type CreateBookInput struct {
	Name  string `json:"name"`
	ISBN  string `json:"isbn"`
	Stock int    `json:"stock"`
}

// UpdateBookInput represents book update input; nil fields are left unchanged
type UpdateBookInput struct {
	Name  *string `json:"name"`
	Stock *int    `json:"stock"`
}

// Create adds a book to the catalog
func (s *BookService) Create(ctx context.Context, input *CreateBookInput, performedBy uint) (*models.Book, error) {
	exists, err := s.books.ExistsByISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrBookISBNTaken
	}

	book := &models.Book{
		Name:  input.Name,
		ISBN:  input.ISBN,
		Stock: input.Stock,
	}

	err = s.uow.Do(ctx, func(r repositories.Repositories) error {
		if err := r.Books.Create(ctx, book); err != nil {
			return err
		}
		return recordAudit(ctx, r.AuditLogs, domain.AuditBookCreated, domain.EntityBook, book.ID, &performedBy,
			fmt.Sprintf("book %q added", book.Name))
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// List lists the catalog with pagination
func (s *BookService) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	return s.books.List(ctx, offset, limit)
}

// Update applies a partial update to a book
func (s *BookService) Update(ctx context.Context, id uint, input *UpdateBookInput, performedBy uint) (*models.Book, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		book.Name = *input.Name
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, domain.ErrBookOutOfStock
		}
		book.Stock = *input.Stock
	}

	err = s.uow.Do(ctx, func(r repositories.Repositories) error {
		if err := r.Books.Update(ctx, book); err != nil {
			return err
		}
		return recordAudit(ctx, r.AuditLogs, domain.AuditBookUpdated, domain.EntityBook, book.ID, &performedBy,
			fmt.Sprintf("book %q updated", book.Name))
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book from the catalog
func (s *BookService) Delete(ctx context.Context, id uint, performedBy uint) error {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.uow.Do(ctx, func(r repositories.Repositories) error {
		if err := r.Books.Delete(ctx, book.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}
		return recordAudit(ctx, r.AuditLogs, domain.AuditBookDeleted, domain.EntityBook, book.ID, &performedBy,
			fmt.Sprintf("book %q removed", book.Name))
	})
}
