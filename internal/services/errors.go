package services

import "fmt"

// ValidationError marks user-correctable input or business-rule violations.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a missing entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// StateError marks an operation that is invalid for the entity's current
// state, such as an illegal status transition or paying a settled order.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

// StockError marks a requested quantity exceeding available stock.
type StockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("only %d of %q available in stock (requested %d)",
		e.Available, e.ProductName, e.Requested)
}

// VerificationError marks a gateway callback whose signature did not verify.
// It is a rejection, not a fault; callers must not retry it.
type VerificationError struct{}

func (e *VerificationError) Error() string { return "callback signature verification failed" }
