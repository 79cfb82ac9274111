package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/core/domain"
	"libraease/internal/core/services"
)

func newLoanService(store *fakeStore) *services.LoanService {
	return services.NewLoanService(store.loans, &fakeUnitOfWork{store: store})
}

func addBook(t *testing.T, store *fakeStore, name, isbn string, stock int) *models.Book {
	t.Helper()
	book := &models.Book{Name: name, ISBN: isbn, Stock: stock}
	require.NoError(t, store.books.Create(context.Background(), book))
	return book
}

func TestBorrowDecrementsStock(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	book := addBook(t, env.store, "The Go Programming Language", "978-0134190440", 2)
	svc := newLoanService(env.store)
	ctx := context.Background()

	due := time.Now().Add(14 * 24 * time.Hour)
	loan, err := svc.Borrow(ctx, &services.BorrowInput{BookID: book.ID, DueDate: due}, user.ID)
	require.NoError(t, err)
	assert.True(t, loan.IsActive)
	assert.Equal(t, user.ID, loan.UserID)
	assert.Equal(t, 1, book.Stock)

	assert.Contains(t, env.store.audits.actions(), string(domain.AuditLoanCreated))
}

func TestBorrowOutOfStock(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	book := addBook(t, env.store, "Rare Book", "978-0000000001", 0)
	svc := newLoanService(env.store)

	_, err := svc.Borrow(context.Background(), &services.BorrowInput{
		BookID:  book.ID,
		DueDate: time.Now().Add(14 * 24 * time.Hour),
	}, user.ID)
	assert.ErrorIs(t, err, domain.ErrBookOutOfStock)
	assert.Equal(t, 0, book.Stock)
}

func TestBorrowUnknownBook(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	svc := newLoanService(env.store)

	_, err := svc.Borrow(context.Background(), &services.BorrowInput{
		BookID:  9999,
		DueDate: time.Now().Add(14 * 24 * time.Hour),
	}, user.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestBorrowSameBookTwice(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	book := addBook(t, env.store, "Popular Book", "978-0000000002", 5)
	svc := newLoanService(env.store)
	ctx := context.Background()

	due := time.Now().Add(14 * 24 * time.Hour)
	_, err := svc.Borrow(ctx, &services.BorrowInput{BookID: book.ID, DueDate: due}, user.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(ctx, &services.BorrowInput{BookID: book.ID, DueDate: due}, user.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyBorrowed)
	assert.Equal(t, 4, book.Stock)
}

func TestReturnClosesLoanAndRestocks(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	book := addBook(t, env.store, "Returnable", "978-0000000003", 1)
	svc := newLoanService(env.store)
	ctx := context.Background()

	loan, err := svc.Borrow(ctx, &services.BorrowInput{
		BookID:  book.ID,
		DueDate: time.Now().Add(14 * 24 * time.Hour),
	}, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, book.Stock)

	require.NoError(t, svc.Return(ctx, loan.ID, user.ID))
	assert.False(t, loan.IsActive)
	assert.NotNil(t, loan.ReturnDate)
	assert.Equal(t, 1, book.Stock)

	// Returning a closed loan fails.
	err = svc.Return(ctx, loan.ID, user.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotActive)

	assert.Contains(t, env.store.audits.actions(), string(domain.AuditLoanReturned))
}

func TestReturnRejectsForeignLoan(t *testing.T) {
	env := newAuthEnv(t)
	alice := env.addUser(t, "alice@example.com", 3)
	mallory := env.addUser(t, "mallory@example.com", 3)
	book := addBook(t, env.store, "Alice's Book", "978-0000000004", 1)
	svc := newLoanService(env.store)
	ctx := context.Background()

	loan, err := svc.Borrow(ctx, &services.BorrowInput{
		BookID:  book.ID,
		DueDate: time.Now().Add(14 * 24 * time.Hour),
	}, alice.ID)
	require.NoError(t, err)

	// The loan is not disclosed to non-owners.
	err = svc.Return(ctx, loan.ID, mallory.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	assert.True(t, loan.IsActive)
}

func TestActiveLoansAndHistory(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	first := addBook(t, env.store, "First", "978-0000000005", 1)
	second := addBook(t, env.store, "Second", "978-0000000006", 1)
	svc := newLoanService(env.store)
	ctx := context.Background()

	due := time.Now().Add(14 * 24 * time.Hour)
	loan, err := svc.Borrow(ctx, &services.BorrowInput{BookID: first.ID, DueDate: due}, user.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, &services.BorrowInput{BookID: second.ID, DueDate: due}, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Return(ctx, loan.ID, user.ID))

	active, err := svc.ActiveLoans(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
