package handlers

import (
	"errors"
	"strconv"

	"libraease/internal/adapters/http/middleware"
	"libraease/internal/adapters/persistence/models"
	"libraease/internal/core/domain"
	"libraease/internal/core/services"
	"libraease/internal/pkg/pagination"
	"libraease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService  *services.UserService
	auditService *services.AuditService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, auditService *services.AuditService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		auditService: auditService,
	}
}

// Me returns the caller's own profile
// @Summary My profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	return response.Success(c, "", caller.ToResponse())
}

// UpdateMe updates the caller's own profile
// @Summary Update my profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Update(c.Context(), caller.ID, &input, caller.ID)
	if err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "Profile updated", user.ToResponse())
}

// DeleteMe deactivates the caller's own account
// @Summary Delete my account
// @Description Soft-delete the account and revoke all its sessions
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	if err := h.userService.Deactivate(c.Context(), caller.ID, caller.ID); err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "Account deleted", nil)
}

// Create creates a user account (staff)
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Email == "" {
		return response.BadRequest(c, "Name and email are required")
	}
	if len(input.Password) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	user, err := h.userService.Create(c.Context(), &input, caller.ID)
	if err != nil {
		return mapUserError(c, err)
	}
	return response.Created(c, "User created", user.ToResponse())
}

// List lists active users (admin)
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}
	return response.Success(c, "", pagination.NewResponse(items, params, total))
}

// GetByID gets a user by ID (admin)
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	user, err := h.userService.GetByID(c.Context(), id)
	if err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "", user.ToResponse())
}

// Update updates a user by ID (admin)
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Update(c.Context(), id, &input, caller.ID)
	if err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "User updated", user.ToResponse())
}

// Delete deactivates a user by ID (admin)
// @Summary Delete user
// @Description Soft-delete the account and revoke all its sessions
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	if err := h.userService.Deactivate(c.Context(), id, caller.ID); err != nil {
		return mapUserError(c, err)
	}
	return response.Success(c, "User deleted", nil)
}

// AuditLogs returns the most recent audit records (admin)
// @Summary Recent audit logs
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/audit-logs [get]
func (h *UserHandler) AuditLogs(c *fiber.Ctx) error {
	entries, err := h.auditService.ListRecent(c.Context(), 100)
	if err != nil {
		return response.InternalServerError(c, "Failed to list audit logs")
	}
	return response.Success(c, "", entries)
}

func mapUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrEmailTaken):
		return response.Conflict(c, "Email already registered")
	case errors.Is(err, domain.ErrInvalidRole):
		return response.BadRequest(c, "Invalid role_id")
	case errors.Is(err, domain.ErrUserLoanPending):
		return response.Conflict(c, "User has active loans")
	default:
		return response.InternalServerError(c, "Request failed")
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
