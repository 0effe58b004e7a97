package admin

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned by Controller.Delete when the operator says no.
var ErrDeclined = errors.New("delete not confirmed")

// ValidationError reports form input that cannot become a payload.
type ValidationError struct {
	Field  Field
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
