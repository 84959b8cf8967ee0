package service

import (
	"errors"
	"fmt"
	"strings"

	"batani-inventory/internal/repository"
	"batani-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error taxonomy. Every failure leaves the stores untouched.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")
	ErrUploadsDisabled   = errors.New("image uploads are not configured")
)

// ValidationError reports bad input: a missing field, or a commission above the line value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientStockError carries what the caller needs to re-prompt.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// moneyScale is the number of decimal places every money column stores.
const moneyScale = 2

// checkMoney rejects amounts the decimal(14,2) columns would round on write.
func checkMoney(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(moneyScale)) {
		return invalid(field, fmt.Sprintf("%s has more than %d decimal places", amount.String(), moneyScale))
	}
	return nil
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// fromValidator turns the first struct validation failure into a ValidationError.
func fromValidator(errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	firstErr := errs[0]
	field := firstErr.FailedField
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("failed on tag '%s'", firstErr.Tag),
	}
}

// notFoundOr maps a repository miss onto the service taxonomy and passes other errors through.
func notFoundOr(err error, entity string, id fmt.Stringer) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id.String()}
	}
	return err
}

func duplicateOr(err error, field, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return invalid(field, message)
	}
	return err
}
