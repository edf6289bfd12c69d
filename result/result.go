// Package result provides a tagged success-or-failure value used across the
// tour pipeline where a failure must be inspected instead of returned early.
package result

import "errors"

// Result wraps either a value or a failure; never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail returns a failed result carrying err.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return Result[T]{err: err}
}

// Failf returns a failed result with the given message.
func Failf[T any](message string) Result[T] {
	return Result[T]{err: errors.New(message)}
}

// IsError reports whether the result is a failure.
func (r Result[T]) IsError() bool {
	return r.err != nil
}

// Value returns the success value; the zero value for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure or nil.
func (r Result[T]) Err() error {
	return r.err
}

// ErrorMessage returns the human readable failure message, "" on success.
func (r Result[T]) ErrorMessage() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

// Unwrap returns value and error in the usual Go form.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Map converts a successful result, passing failures through unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Ok(fn(r.value))
}
