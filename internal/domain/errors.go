package domain

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrRetrieval       = errors.New("image retrieval failed")
	ErrRender          = errors.New("render failed")
	ErrProviderFailure = errors.New("provider failure")
)

// ValidationError reports client input that does not match the catalog or an
// accepted parameter range. Its message is returned to the caller verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError with a formatted message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
