package apperr

import "fmt"

// ValidationError indicates malformed input. Nothing is written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for a resource and identifier.
func NewNotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AlreadyPaidError is returned when a payment is attempted against a fully settled fee.
type AlreadyPaidError struct {
	FeeID uint
}

func (e *AlreadyPaidError) Error() string {
	return fmt.Sprintf("fee %d has already been paid in full", e.FeeID)
}

// DuplicateError indicates a uniqueness violation. The caller may retry with new identifiers.
type DuplicateError struct {
	Resource string
	Key      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Resource, e.Key)
}

// InvalidExamError indicates grading input outside the exam's mark range,
// or an exam with a non-positive total.
type InvalidExamError struct {
	Reason string
}

func (e *InvalidExamError) Error() string {
	return fmt.Sprintf("invalid exam data: %s", e.Reason)
}
