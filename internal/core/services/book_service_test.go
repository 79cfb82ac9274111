package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraease/internal/core/domain"
	"libraease/internal/core/services"
)

func newBookService(store *fakeStore) *services.BookService {
	return services.NewBookService(store.books, &fakeUnitOfWork{store: store})
}

func TestBookCreate(t *testing.T) {
	env := newAuthEnv(t)
	svc := newBookService(env.store)
	ctx := context.Background()

	book, err := svc.Create(ctx, &services.CreateBookInput{
		Name:  "Clean Architecture",
		ISBN:  "978-0134494166",
		Stock: 3,
	}, 1)
	require.NoError(t, err)
	assert.NotZero(t, book.ID)

	_, err = svc.Create(ctx, &services.CreateBookInput{
		Name:  "Clean Architecture (2nd copy batch)",
		ISBN:  "978-0134494166",
		Stock: 1,
	}, 1)
	assert.ErrorIs(t, err, domain.ErrBookISBNTaken)

	assert.Contains(t, env.store.audits.actions(), string(domain.AuditBookCreated))
}

func TestBookUpdate(t *testing.T) {
	env := newAuthEnv(t)
	book := addBook(t, env.store, "Old Title", "978-0000000010", 2)
	svc := newBookService(env.store)
	ctx := context.Background()

	name := "New Title"
	stock := 5
	updated, err := svc.Update(ctx, book.ID, &services.UpdateBookInput{Name: &name, Stock: &stock}, 1)
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Name)
	assert.Equal(t, 5, updated.Stock)

	negative := -1
	_, err = svc.Update(ctx, book.ID, &services.UpdateBookInput{Stock: &negative}, 1)
	assert.ErrorIs(t, err, domain.ErrBookOutOfStock)

	_, err = svc.Update(ctx, 9999, &services.UpdateBookInput{Name: &name}, 1)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestBookDelete(t *testing.T) {
	env := newAuthEnv(t)
	book := addBook(t, env.store, "Disposable", "978-0000000011", 1)
	svc := newBookService(env.store)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, book.ID, 1))

	_, err := svc.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	err = svc.Delete(ctx, book.ID, 1)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	assert.Contains(t, env.store.audits.actions(), string(domain.AuditBookDeleted))
}
