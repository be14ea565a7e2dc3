package service

import (
	"errors"
	"fmt"
)

// ValidationError rejects a payload before it touches storage.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err originates from payload validation.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
