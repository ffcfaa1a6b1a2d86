package domain

import (
	"errors"
	"strings"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInUse indicates an entity cannot be removed while other rows reference it.
var ErrInUse = errors.New("entity is still referenced")

// ErrorKind distinguishes the causes that share the ValidationError shape.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindReferenceNotFound
	KindDeleteFailed
	KindUpdateFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindReferenceNotFound:
		return "reference_not_found"
	case KindDeleteFailed:
		return "delete_failed"
	case KindUpdateFailed:
		return "update_failed"
	default:
		return "unknown"
	}
}

// ValidationError carries every violated rule of an operation, in the order
// the rules were checked. Lookup and persistence failures reuse the same shape
// with a single message and a different Kind.
type ValidationError struct {
	Kind   ErrorKind
	Errors []string
}

// NewValidationError returns a KindValidation error for the given messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Kind: KindValidation, Errors: messages}
}

// NewKindError returns a single-message error of the given kind.
func NewKindError(kind ErrorKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Errors: []string{message}}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "\n")
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	return verr.Kind == kind
}
