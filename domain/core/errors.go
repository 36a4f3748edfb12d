package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Precondition violations - surfaced to the caller, never recovered silently
	ErrShapeMismatch = errors.New("series length mismatch")
	ErrNonSquare     = errors.New("matrix is not square")
	ErrEmptyInput    = errors.New("empty input")

	// Degenerate data - recovered locally by convention (association = 0)
	ErrDegenerateInput = errors.New("degenerate input")
	ErrSingleCategory  = fmt.Errorf("%w: single observed category", ErrDegenerateInput)

	// Numeric instability - coerced to 0 with a warning unless strict mode
	ErrNumericInstability = errors.New("numeric instability")

	// Lookup errors
	ErrColumnNotFound = errors.New("column not found")
	ErrEntityNotFound = errors.New("entity not found")

	// Configuration errors
	ErrInvalidScale     = errors.New("invalid scale mode")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrInvalidNodeGap   = errors.New("node gap exceeds angular span")
)

// NewShapeMismatchError reports unequal series lengths with context.
func NewShapeMismatchError(op string, lenX, lenY int) error {
	return fmt.Errorf("%w: %s got lengths %d and %d", ErrShapeMismatch, op, lenX, lenY)
}

// NewColumnNotFoundError reports a missing column by name.
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// NewValidationError reports an input-boundary contract violation.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrNonSquare) ||
		errors.Is(err, ErrEmptyInput)
}

func IsDegenerateError(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}

func IsInstabilityError(err error) bool {
	return errors.Is(err, ErrNumericInstability)
}
