// Package errors provides standardized error types and helpers for the citesync codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrCorrupt indicates stored data failed an integrity check
	ErrCorrupt = errors.New("corrupt data")
	// ErrMissingCollaborator indicates a required collaborator was nil at construction
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// ConstructionError represents a missing required collaborator at construction time.
// It is fatal: the component cannot be built without the named collaborator.
type ConstructionError struct {
	Component    string // Component being constructed (e.g., "controller")
	Collaborator string // Collaborator that was missing (e.g., "document", "entity store")
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct %s: %s is required", e.Component, e.Collaborator)
}

func (e *ConstructionError) Unwrap() error {
	return ErrMissingCollaborator
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "node", "record", "snapshot")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// CorruptError represents an integrity check failure on stored data
type CorruptError struct {
	Path    string // File/resource path involved
	Message string // What failed (e.g., digest mismatch details)
}

func (e *CorruptError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("corrupt data at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("corrupt data: %s", e.Message)
}

func (e *CorruptError) Unwrap() error {
	return ErrCorrupt
}

// Helper functions for creating common errors

// NewConstruction creates a ConstructionError
func NewConstruction(component, collaborator string) *ConstructionError {
	return &ConstructionError{
		Component:    component,
		Collaborator: collaborator,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewCorrupt creates a CorruptError
func NewCorrupt(path, message string) *CorruptError {
	return &CorruptError{
		Path:    path,
		Message: message,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
