package translator

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput marks input that is not valid YAML or is missing
	// required keys (kind, metadata.name).
	ErrMalformedInput = errors.New("malformed input")

	// ErrValidation marks structurally valid input that violates a
	// cross-document invariant (multiple services, multiple workloads).
	ErrValidation = errors.New("validation failed")

	// ErrConversion marks a failure of the external compose converter.
	ErrConversion = errors.New("conversion failed")
)

// TranslationError carries a human-readable message on top of one of the
// sentinel errors above, so callers can branch with errors.Is while the CLI
// prints the message as-is.
type TranslationError struct {
	Message string
	Err     error
}

func (e *TranslationError) Error() string {
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func malformedf(format string, args ...interface{}) error {
	return &TranslationError{Message: fmt.Sprintf(format, args...), Err: ErrMalformedInput}
}

func validationf(format string, args ...interface{}) error {
	return &TranslationError{Message: fmt.Sprintf(format, args...), Err: ErrValidation}
}

func conversionf(format string, args ...interface{}) error {
	return &TranslationError{Message: fmt.Sprintf(format, args...), Err: ErrConversion}
}
