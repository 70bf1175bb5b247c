package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadyPaid indicates an attempt to settle a commission that is already paid.
var ErrAlreadyPaid = errors.New("commission already paid")

// ErrInsufficientBalance indicates a wallet debit that would drive the balance negative.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// ErrInsufficientStock indicates a movement rejected under the strict stock policy.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and message.
// Repositories use it to surface infrastructure failures without leaking
// driver details to callers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// InsufficientBalanceError carries enough detail for the caller to offer a
// top-up path: the wallet's current balance and the amount the settlement
// required. It unwraps to ErrInsufficientBalance so errors.Is keeps working.
type InsufficientBalanceError struct {
	OwnerID  string
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient wallet balance for owner %s: have %s, need %s",
		e.OwnerID, e.Balance.String(), e.Required.String())
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// NewInsufficientBalanceError creates a new InsufficientBalanceError.
func NewInsufficientBalanceError(ownerID string, balance, required decimal.Decimal) *InsufficientBalanceError {
	return &InsufficientBalanceError{OwnerID: ownerID, Balance: balance, Required: required}
}
