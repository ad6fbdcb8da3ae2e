package errs

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalid           = errors.New("invalid request")
	ErrConflict          = errors.New("conflict")
	ErrTooMany           = errors.New("too many requests")
	ErrInternal          = errors.New("internal error")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrNotImplemented    = errors.New("not implemented")
	ErrAIUnavailable     = errors.New("ai unavailable")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}
