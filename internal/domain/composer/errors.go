package composer

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNotConfirmed       = errors.New("destructive operation not confirmed")
	ErrSessionClosed      = errors.New("editor session closed")
	ErrInvalidComponentID = errors.New("invalid component id")
	ErrInvalidKind        = errors.New("invalid component type")
	ErrMalformedPayload   = errors.New("malformed component payload")
	ErrMalformedOrder     = errors.New("malformed component order")
)

// NotFoundError reports a missing component, template, snippet or type.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
