package params

import "errors"

// ErrUnknownParam is wrapped by every lookup of an unregistered id.
var ErrUnknownParam = errors.New("params: unknown parameter id")

// UnknownError names the id that failed to resolve.
type UnknownError struct {
	ID string
}

func (e *UnknownError) Error() string {
	return ErrUnknownParam.Error() + " " + e.ID
}

func (e *UnknownError) Unwrap() error {
	return ErrUnknownParam
}
