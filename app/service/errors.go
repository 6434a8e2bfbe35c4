package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the operation targeted a request id that does not
	// exist. Revoke never returns it.
	ErrNotFound = errors.New("access request not found")

	// ErrForbidden means the caller is not the party allowed to invoke the
	// transition. The request is left untouched.
	ErrForbidden = errors.New("not authorised for this request")

	// ErrValidation is the base for rejected input; wrapped errors carry the
	// reason.
	ErrValidation = errors.New("validation failed")
)

func validationErr(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
