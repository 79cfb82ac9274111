package domain

import "errors"

// AppError is an error with a stable machine-readable code.
// Handlers serialize Code and Message only; internal causes never
// cross the API boundary.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Security errors. Every credential, token or identity failure is
// normalized to ErrAuthentication before it leaves a service so callers
// cannot probe which check failed. ErrAuthorization means the caller is
// authenticated but their role is not in the allowed set.
var (
	ErrAuthentication = &AppError{Code: "AUTH_FAILED", Message: "authentication failed"}
	ErrAuthorization  = &AppError{Code: "FORBIDDEN", Message: "you do not have permission to perform this action"}
)

// User errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidRole     = errors.New("invalid role")
	ErrUserLoanPending = errors.New("user has active loans")
)

// Book errors
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrBookISBNTaken  = errors.New("isbn already registered")
	ErrBookOutOfStock = errors.New("book out of stock")
)

// Loan errors
var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrAlreadyBorrowed = errors.New("book already borrowed by user")
	ErrLoanNotActive   = errors.New("loan is not active")
)
