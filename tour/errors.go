package tour

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for mapping to a caller-facing outcome.
type Kind int

const (
	KindUnexpected Kind = iota
	KindConfiguration
	KindMatch
	KindSolverNonConvergence
	KindAssembly
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindMatch:
		return "match"
	case KindSolverNonConvergence:
		return "solver_non_convergence"
	case KindAssembly:
		return "assembly"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

const (
	MessageMatrixFailed = "Calculating weight matrix failed."
	MessageRouteFailed  = "Calculating final route failed."
)

// Error a classified failure. Message is safe to return to callers, Err
// keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates a classified failure.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail message plus cause, for logging.
func (e *Error) Detail() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// KindOf returns the kind of a classified error, KindUnexpected otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
