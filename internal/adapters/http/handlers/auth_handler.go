package handlers

import (
	"errors"

	"libraease/internal/adapters/http/middleware"
	"libraease/internal/core/domain"
	"libraease/internal/core/services"
	"libraease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest represents logout request body
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login authenticates a user and issues a token pair
// @Summary Login
// @Description Authenticate with email and password, receive access and refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	pair, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
		}
		return response.InternalServerError(c, "Failed to login")
	}

	return response.Success(c, "Login successful", pair)
}

// Refresh rotates the refresh token and issues a new access token
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair; the presented token is invalidated
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	pair, err := h.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
		}
		return response.InternalServerError(c, "Failed to refresh token")
	}

	return response.Success(c, "Token refreshed successfully", pair)
}

// Logout revokes the caller's refresh token
// @Summary Logout
// @Description Revoke the presented refresh token; it must belong to the caller
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LogoutRequest true "Refresh token"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	caller := middleware.CurrentUser(c)
	if caller == nil {
		return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
	}

	if err := h.authService.Logout(c.Context(), req.RefreshToken, caller.ID); err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
		}
		return response.InternalServerError(c, "Failed to logout")
	}

	return response.Success(c, "Logout successful", nil)
}

// Me returns the authenticated caller
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	if caller == nil {
		return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
	}
	return response.Success(c, "", caller.ToResponse())
}
