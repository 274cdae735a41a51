package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced entity no longer exists server side.
var ErrNotFound = errors.New("not found")

// RequestFailedError is any network or server failure. It is never retried.
type RequestFailedError struct {
	Op     string
	Status int
	Reason string
}

func (e *RequestFailedError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: request failed with status %d: %s", e.Op, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s: request failed: %s", e.Op, e.Reason)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
