package handlers

import (
	"errors"

	"libraease/internal/adapters/http/middleware"
	"libraease/internal/core/domain"
	"libraease/internal/core/services"
	"libraease/internal/pkg/pagination"
	"libraease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles book catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// Create adds a book (staff)
// @Summary Create book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	var input services.CreateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.ISBN == "" {
		return response.BadRequest(c, "Name and ISBN are required")
	}
	if input.Stock < 0 {
		return response.BadRequest(c, "Stock must not be negative")
	}

	book, err := h.bookService.Create(c.Context(), &input, caller.ID)
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Created(c, "Book created", book)
}

// List lists the catalog
// @Summary List books
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	books, total, err := h.bookService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}
	return response.Success(c, "", pagination.NewResponse(books, params, total))
}

// GetByID gets a book by ID
// @Summary Get book
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid book id")
	}

	book, err := h.bookService.GetByID(c.Context(), id)
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "", book)
}

// Update updates a book (staff)
// @Summary Update book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body services.UpdateBookInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid book id")
	}

	var input services.UpdateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.Context(), id, &input, caller.ID)
	if err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Book updated", book)
}

// Delete removes a book (staff)
// @Summary Delete book
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid book id")
	}

	if err := h.bookService.Delete(c.Context(), id, caller.ID); err != nil {
		return mapBookError(c, err)
	}
	return response.Success(c, "Book deleted", nil)
}

func mapBookError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		return response.NotFound(c, "Book not found")
	case errors.Is(err, domain.ErrBookISBNTaken):
		return response.Conflict(c, "ISBN already registered")
	case errors.Is(err, domain.ErrBookOutOfStock):
		return response.BadRequest(c, "Book out of stock")
	default:
		return response.InternalServerError(c, "Request failed")
	}
}
