package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/adapters/persistence/repositories"
	"libraease/internal/core/domain"
	"libraease/internal/pkg/jwt"
	"libraease/internal/pkg/password"
	"libraease/internal/pkg/token"
)

// AuthService orchestrates login, refresh and logout. It owns the
// session state machine: a user has at most one active refresh token,
// every issuance revokes the previous one, and refresh tokens are
// single-use (rotation-on-use).
type AuthService struct {
	users      repositories.UserRepository
	uow        repositories.UnitOfWork
	codec      *jwt.Codec
	refreshTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repositories.UserRepository,
	uow repositories.UnitOfWork,
	codec *jwt.Codec,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:      users,
		uow:        uow,
		codec:      codec,
		refreshTTL: refreshTTL,
	}
}

// TokenPair represents an issued access + refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Login verifies credentials and issues a token pair. A missing user, an
// inactive account and a wrong password are indistinguishable to the
// caller. Issuing the refresh token revokes every prior active token for
// the user; the refresh row and its audit entry commit together, and no
// tokens are returned unless the commit succeeded.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	user, err := s.users.GetActiveByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAuthentication
		}
		return nil, err
	}

	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, domain.ErrAuthentication
	}

	opaque, err := token.Generate()
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(r repositories.Repositories) error {
		// Lock the user row so concurrent logins/refreshes for the
		// same user serialize: only one issuance at a time can see
		// and revoke the current active set.
		if _, err := r.Users.LockActiveByID(ctx, user.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAuthentication
			}
			return err
		}
		if err := r.RefreshTokens.RevokeAllByUserID(ctx, user.ID); err != nil {
			return err
		}
		if err := r.RefreshTokens.Create(ctx, &models.RefreshToken{
			UserID:    user.ID,
			TokenHash: password.HashToken(opaque),
			ExpiresAt: time.Now().Add(s.refreshTTL),
		}); err != nil {
			return err
		}
		return recordAudit(ctx, r.AuditLogs, domain.AuditUserLogin, domain.EntityUser, user.ID, &user.ID,
			fmt.Sprintf("user %s logged in", user.Email))
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Generate(user.ID, user.Role.Name)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: opaque,
		TokenType:    "bearer",
	}, nil
}

// Refresh rotates a refresh token and issues a new access token. The
// presented token is revoked and replaced in one transaction; presenting
// it a second time fails. Unknown, revoked and expired tokens all yield
// the same error so callers cannot probe which case they hit. An expired
// token is left unrevoked here; the nightly sweep revokes it by policy.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	opaque, err := token.Generate()
	if err != nil {
		return nil, err
	}

	var (
		userID   uint
		roleName string
	)
	err = s.uow.Do(ctx, func(r repositories.Repositories) error {
		rt, err := r.RefreshTokens.GetActiveByHash(ctx, password.HashToken(refreshToken))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAuthentication
			}
			return err
		}

		user, err := r.Users.LockActiveByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAuthentication
			}
			return err
		}

		if rt.IsExpired() {
			return domain.ErrAuthentication
		}

		// Compare-and-set revoke: a concurrent rotation of the same
		// token loses here and fails cleanly.
		if err := r.RefreshTokens.Revoke(ctx, rt.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAuthentication
			}
			return err
		}

		if err := r.RefreshTokens.Create(ctx, &models.RefreshToken{
			UserID:    user.ID,
			TokenHash: password.HashToken(opaque),
			ExpiresAt: time.Now().Add(s.refreshTTL),
		}); err != nil {
			return err
		}

		role, err := r.Roles.GetByID(ctx, user.RoleID)
		if err != nil {
			return err
		}

		userID = user.ID
		roleName = role.Name

		return recordAudit(ctx, r.AuditLogs, domain.AuditTokenRefreshed, domain.EntityUser, user.ID, &user.ID,
			fmt.Sprintf("session refreshed for user %s", user.Email))
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Generate(userID, roleName)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: opaque,
		TokenType:    "bearer",
	}, nil
}

// Logout revokes the presented refresh token. The token must belong to
// the authenticated caller: revoking someone else's token fails and
// leaves the owner's session untouched.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, callerID uint) error {
	return s.uow.Do(ctx, func(r repositories.Repositories) error {
		rt, err := r.RefreshTokens.GetActiveByHash(ctx, password.HashToken(refreshToken))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAuthentication
			}
			return err
		}

		if rt.UserID != callerID {
			return domain.ErrAuthentication
		}

		if err := r.RefreshTokens.Revoke(ctx, rt.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAuthentication
			}
			return err
		}

		return recordAudit(ctx, r.AuditLogs, domain.AuditUserLogout, domain.EntityUser, callerID, &callerID,
			"user logged out")
	})
}

// Authenticate resolves the caller identity from a bearer access token.
// Bad signature, malformed token, expired token, unknown subject and
// inactive account all collapse to one error. Token verification itself
// is computational; only the user lookup touches the store.
func (s *AuthService) Authenticate(ctx context.Context, bearerToken string) (*models.User, error) {
	claims, err := s.codec.Validate(bearerToken)
	if err != nil {
		return nil, domain.ErrAuthentication
	}

	user, err := s.users.GetActiveByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrAuthentication
	}

	return user, nil
}

// Authorize passes the user through when their role is in the allowed
// set. Pure predicate: it performs no identity resolution.
func (s *AuthService) Authorize(user *models.User, allowed ...domain.Role) (*models.User, error) {
	if user == nil {
		return nil, domain.ErrAuthentication
	}
	if !user.RoleName().In(allowed...) {
		return nil, domain.ErrAuthorization
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
