package errors

import "fmt"

// ErrorCode represents a Keeper error code.
type ErrorCode string

const (
	ErrAmbiguousAddressing ErrorCode = "AMBIGUOUS_ADDRESSING" // 400
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrFileNotFound        ErrorCode = "FILE_NOT_FOUND"       // 404
	ErrAmbiguousMatch      ErrorCode = "AMBIGUOUS_MATCH"      // 409
	ErrValidation          ErrorCode = "VALIDATION"           // 422
	ErrCancelled           ErrorCode = "CANCELLED"            // 499
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// KeeperError represents a structured error with code, status, and details.
type KeeperError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *KeeperError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAmbiguousAddressing creates a 400 error for when both ID and a match
// predicate are provided.
func NewAmbiguousAddressing() *KeeperError {
	return &KeeperError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and a match predicate; use one addressing mode",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *KeeperError {
	return &KeeperError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(identifier string) *KeeperError {
	return &KeeperError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("record not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import/export file.
func NewFileNotFound(path string) *KeeperError {
	return &KeeperError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewAmbiguousMatch creates a 409 error for when a predicate matches more
// than one record. The candidate IDs are included so the caller can retry
// with an exact ID.
func NewAmbiguousMatch(predicate string, ids []string) *KeeperError {
	return &KeeperError{
		Code:    ErrAmbiguousMatch,
		Status:  409,
		Message: fmt.Sprintf("%q matches %d records; retry with an id", predicate, len(ids)),
		Details: map[string]any{"predicate": predicate, "candidate_ids": ids},
	}
}

// NewValidation creates a 422 error for a field that failed validation.
func NewValidation(field, msg string) *KeeperError {
	return &KeeperError{
		Code:    ErrValidation,
		Status:  422,
		Message: fmt.Sprintf("invalid %s: %s", field, msg),
		Details: map[string]any{"field": field},
	}
}

// NewCancelled creates a 499 error for an operation aborted by context
// cancellation.
func NewCancelled(operation string) *KeeperError {
	return &KeeperError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *KeeperError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &KeeperError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a KeeperError with the given code.
func Is(err error, code ErrorCode) bool {
	if kErr, ok := err.(*KeeperError); ok {
		return kErr.Code == code
	}
	return false
}
