package catalog

import (
	"errors"
	"fmt"
)

// TransportError is returned for every failed request: the network call
// failed, the server answered with a non-2xx status, or the body could not
// be decoded.
type TransportError struct {
	Op         string // list, create, update, delete
	Method     string
	Path       string
	StatusCode int // zero when no response arrived
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("%s: api %s %s returned status %d", e.Op, e.Method, e.Path, e.StatusCode)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: api %s %s returned status %d: %v", e.Op, e.Method, e.Path, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err, or zero if err is not a
// TransportError carrying one.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
