package services

import "errors"

// ErrNotFound covers lookups that miss: unknown product or order ids, or a
// non-guest order whose email matches no account.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input. It is surfaced synchronously to
// the caller and never retried.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

func invalid(reason string) error { return ValidationError{Reason: reason} }

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
