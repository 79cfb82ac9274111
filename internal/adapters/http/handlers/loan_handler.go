package handlers

import (
	"errors"
	"strconv"

	"libraease/internal/adapters/http/middleware"
	"libraease/internal/adapters/persistence/models"
	"libraease/internal/core/domain"
	"libraease/internal/core/services"
	"libraease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles borrow/return endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Borrow lends a book to the caller
// @Summary Borrow book
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BorrowInput true "Loan data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/borrow [post]
func (h *LoanHandler) Borrow(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var input services.BorrowInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.BookID == 0 {
		return response.BadRequest(c, "book_id is required")
	}
	if input.DueDate.IsZero() {
		return response.BadRequest(c, "due_date is required")
	}

	loan, err := h.loanService.Borrow(c.Context(), &input, caller.ID)
	if err != nil {
		return mapLoanError(c, err)
	}
	return response.Created(c, "Book borrowed", loan.ToResponse())
}

// Return closes one of the caller's loans
// @Summary Return book
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/return/{id} [post]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan id")
	}

	if err := h.loanService.Return(c.Context(), id, caller.ID); err != nil {
		return mapLoanError(c, err)
	}
	return response.Success(c, "Book returned", nil)
}

// MyActiveLoans lists the caller's open loans
// @Summary My active loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/me [get]
func (h *LoanHandler) MyActiveLoans(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	loans, err := h.loanService.ActiveLoans(c.Context(), caller.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}
	return response.Success(c, "", loansToResponse(loans))
}

// MyHistory lists the caller's loan history
// @Summary My loan history
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/history [get]
func (h *LoanHandler) MyHistory(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	loans, err := h.loanService.History(c.Context(), caller.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}
	return response.Success(c, "", loansToResponse(loans))
}

// UserHistory lists a user's loan history (staff)
// @Summary User loan history
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Router /loans/user/{user_id} [get]
func (h *LoanHandler) UserHistory(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("user_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	loans, err := h.loanService.History(c.Context(), uint(userID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}
	return response.Success(c, "", loansToResponse(loans))
}

func loansToResponse(loans []*models.Loan) []*models.LoanResponse {
	items := make([]*models.LoanResponse, 0, len(loans))
	for _, l := range loans {
		items = append(items, l.ToResponse())
	}
	return items
}

func mapLoanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		return response.NotFound(c, "Book not found")
	case errors.Is(err, domain.ErrBookOutOfStock):
		return response.Conflict(c, "Book out of stock")
	case errors.Is(err, domain.ErrAlreadyBorrowed):
		return response.Conflict(c, "You have already borrowed this book")
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrLoanNotActive):
		return response.BadRequest(c, "Loan is not active")
	default:
		return response.InternalServerError(c, "Request failed")
	}
}
