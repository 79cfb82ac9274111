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
	"libraease/internal/pkg/password"
)

// UserService handles user account business logic
type UserService struct {
	users repositories.UserRepository
	roles repositories.RoleRepository
	uow   repositories.UnitOfWork
}

// NewUserService creates a new user service
func NewUserService(
	users repositories.UserRepository,
	roles repositories.RoleRepository,
	uow repositories.UnitOfWork,
) *UserService {
	return &UserService{
		users: users,
		roles: roles,
		uow:   uow,
	}
}

// CreateUserInput represents admin user creation input
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   uint   `json:"role_id"`
}

// UpdateUserInput represents user update input; nil fields are left unchanged
type UpdateUserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Create creates a new user account (staff operation)
func (s *UserService) Create(ctx context.Context, input *CreateUserInput, performedBy uint) (*models.User, error) {
	email := normalizeEmail(input.Email)

	exists, err := s.users.ExistsActiveByEmail(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	role, err := s.roles.GetByID(ctx, input.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidRole
		}
		return nil, err
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hashed,
		RoleID:       role.ID,
		IsActive:     true,
		Role:         *role,
	}

	err = s.uow.Do(ctx, func(r repositories.Repositories) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return recordAudit(ctx, r.AuditLogs, domain.AuditUserCreated, domain.EntityUser, user.ID, &performedBy,
			fmt.Sprintf("user %s created", user.Email))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s (role %s)", user.Email, role.Name)
	return user, nil
}

// GetByID gets an active user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List lists active users with pagination
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.users.ListActive(ctx, offset, limit)
}

// Update applies a partial update to a user account
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput, performedBy uint) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		exists, err := s.users.ExistsActiveByEmail(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	err = s.uow.Do(ctx, func(r repositories.Repositories) error {
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return recordAudit(ctx, r.AuditLogs, domain.AuditUserUpdated, domain.EntityUser, user.ID, &performedBy,
			fmt.Sprintf("user %s updated", user.Email))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate soft-deletes a user: the account is flagged inactive, the
// deletion is stamped, and every active session is revoked in the same
// transaction. Blocked while the user still holds active loans. Already
// issued access tokens stay valid until they expire; the account check
// on authentication shuts them out of protected operations immediately.
func (s *UserService) Deactivate(ctx context.Context, id uint, performedBy uint) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	action := domain.AuditUserDeleted
	if id == performedBy {
		action = domain.AuditUserSelfDeleted
	}

	err = s.uow.Do(ctx, func(r repositories.Repositories) error {
		hasLoans, err := r.Loans.HasActiveByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if hasLoans {
			return domain.ErrUserLoanPending
		}

		// Counted before revocation so the audit entry records how many
		// live sessions the deactivation cut off.
		sessions, err := r.RefreshTokens.CountActiveByUserID(ctx, user.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		user.IsActive = false
		user.DeletedAt = &now
		user.DeletedBy = &performedBy
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}

		if err := r.RefreshTokens.RevokeAllByUserID(ctx, user.ID); err != nil {
			return err
		}

		return recordAudit(ctx, r.AuditLogs, action, domain.EntityUser, user.ID, &performedBy,
			fmt.Sprintf("user %s deactivated, %d active sessions revoked", user.Email, sessions))
	})
	if err != nil {
		return err
	}

	log.Printf("✅ User deactivated: %s", user.Email)
	return nil
}
