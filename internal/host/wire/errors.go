package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by calls on a client whose connection has
	// gone away.
	ErrClosed = errors.New("wire: connection closed")
	// ErrTimeout is returned when the server does not answer within
	// the call timeout.
	ErrTimeout = errors.New("wire: call timed out")
)

// RemoteError is a failure reported by the server.
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("wire: %s: %s", e.Action, e.Message)
}
