package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Common application errors
var (
	ErrNotFound      = NewNotFoundError("resource", "resource not found")
	ErrAlreadyExists = NewAlreadyExistsError("resource", "resource already exists")
	ErrInvalidInput  = NewValidationError("", "invalid argument")
	ErrInternal      = NewInternalError("internal server error", nil)
	ErrUnauthorized  = NewUnauthorizedError("missing or invalid credentials")
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *AlreadyExistsError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// NotAllowedError represents a violated domain rule, such as following yourself.
type NotAllowedError struct {
	Message string
}

// NewNotAllowedError creates a new not allowed error
func NewNotAllowedError(message string) *NotAllowedError {
	return &NotAllowedError{Message: message}
}

// Error implements the error interface
func (e *NotAllowedError) Error() string {
	return e.Message
}

// GRPCStatus returns the gRPC status for this error
func (e *NotAllowedError) GRPCStatus() *status.Status {
	return status.New(codes.PermissionDenied, e.Message)
}

// BlockedError is returned when a profile is hidden by the blocked flag.
type BlockedError struct {
	ID string
}

// NewBlockedError creates a new blocked error
func NewBlockedError(id string) *BlockedError {
	return &BlockedError{ID: id}
}

// Error implements the error interface
func (e *BlockedError) Error() string {
	return fmt.Sprintf("user %s is blocked", e.ID)
}

// GRPCStatus returns the gRPC status for this error
func (e *BlockedError) GRPCStatus() *status.Status {
	return status.New(codes.PermissionDenied, e.Error())
}

// UnauthorizedError represents a missing or invalid credential
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return e.Message
}

// GRPCStatus returns the gRPC status for this error
func (e *UnauthorizedError) GRPCStatus() *status.Status {
	return status.New(codes.Unauthenticated, e.Message)
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAlreadyExists reports whether err wraps an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var target *AlreadyExistsError
	return errors.As(err, &target)
}

// IsNotAllowed reports whether err wraps a NotAllowedError.
func IsNotAllowed(err error) bool {
	var target *NotAllowedError
	return errors.As(err, &target)
}

// IsBlocked reports whether err wraps a BlockedError.
func IsBlocked(err error) bool {
	var target *BlockedError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err wraps an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}
