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
	"libraease/internal/pkg/password"
)

func newUserService(store *fakeStore) *services.UserService {
	return services.NewUserService(store.users, store.roles, &fakeUnitOfWork{store: store})
}

func TestUserCreate(t *testing.T) {
	env := newAuthEnv(t)
	svc := newUserService(env.store)
	ctx := context.Background()

	user, err := svc.Create(ctx, &services.CreateUserInput{
		Name:     "Bob",
		Email:    "  Bob@Example.COM ",
		Password: testPassword,
		RoleID:   3,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.True(t, user.IsActive)

	// Stored hash verifies, and the plaintext is not stored.
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.True(t, password.Verify(testPassword, user.PasswordHash))

	assert.Contains(t, env.store.audits.actions(), string(domain.AuditUserCreated))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	env.addUser(t, "bob@example.com", 3)
	svc := newUserService(env.store)

	_, err := svc.Create(context.Background(), &services.CreateUserInput{
		Name:     "Bob Again",
		Email:    "bob@example.com",
		Password: testPassword,
		RoleID:   3,
	}, 1)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserCreateUnknownRole(t *testing.T) {
	env := newAuthEnv(t)
	svc := newUserService(env.store)

	_, err := svc.Create(context.Background(), &services.CreateUserInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: testPassword,
		RoleID:   42,
	}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserUpdate(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	other := env.addUser(t, "taken@example.com", 3)
	svc := newUserService(env.store)
	ctx := context.Background()

	name := "Alice Renamed"
	updated, err := svc.Update(ctx, user.ID, &services.UpdateUserInput{Name: &name}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", updated.Name)

	email := other.Email
	_, err = svc.Update(ctx, user.ID, &services.UpdateUserInput{Email: &email}, user.ID)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Update(ctx, 9999, &services.UpdateUserInput{Name: &name}, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDeactivateRevokesSessions(t *testing.T) {
	env := newAuthEnv(t)
	admin := env.addUser(t, "admin@example.com", 1)
	user := env.addUser(t, "alice@example.com", 3)
	require.NotEqual(t, admin.ID, user.ID)
	svc := newUserService(env.store)
	ctx := context.Background()

	pair, err := env.auth.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, user.ID, admin.ID))

	assert.False(t, user.IsActive)
	assert.NotNil(t, user.DeletedAt)
	require.NotNil(t, user.DeletedBy)
	assert.Equal(t, admin.ID, *user.DeletedBy)

	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	_, err = env.auth.Login(ctx, "alice@example.com", testPassword)
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	assert.Contains(t, env.store.audits.actions(), string(domain.AuditUserDeleted))
	assert.NotContains(t, env.store.audits.actions(), string(domain.AuditUserSelfDeleted))

	var deletionMessage string
	for _, entry := range env.store.audits.entries {
		if entry.Action == string(domain.AuditUserDeleted) {
			deletionMessage = entry.Message
		}
	}
	assert.Contains(t, deletionMessage, "1 active sessions revoked")
}

func TestUserSelfDeactivateAuditedSeparately(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	svc := newUserService(env.store)

	require.NoError(t, svc.Deactivate(context.Background(), user.ID, user.ID))

	assert.Contains(t, env.store.audits.actions(), string(domain.AuditUserSelfDeleted))
	assert.NotContains(t, env.store.audits.actions(), string(domain.AuditUserDeleted))
}

func TestUserDeactivateBlockedByActiveLoan(t *testing.T) {
	env := newAuthEnv(t)
	user := env.addUser(t, "alice@example.com", 3)
	svc := newUserService(env.store)
	ctx := context.Background()

	require.NoError(t, env.store.loans.Create(ctx, &models.Loan{
		UserID:     user.ID,
		BookID:     1,
		BorrowDate: time.Now(),
		DueDate:    time.Now().Add(14 * 24 * time.Hour),
		IsActive:   true,
	}))

	err := svc.Deactivate(ctx, user.ID, 1)
	assert.ErrorIs(t, err, domain.ErrUserLoanPending)
	assert.True(t, user.IsActive)
}
