package transport

import (
	"errors"
	"fmt"
)

var errAlreadyConnected = errors.New("already connected")

// ConnectionError indicates that the serial channel could not be opened.
type ConnectionError struct {
	// Port is the device name that failed to open
	Port string

	// Err is the underlying open failure
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DisconnectedError indicates an operation was attempted, or a blocked Read
// was interrupted, after the transport was torn down.
type DisconnectedError struct{}

func (e *DisconnectedError) Error() string {
	return "transport disconnected"
}

// WriteError indicates a write failed or was attempted on a closed channel.
type WriteError struct {
	// Err is the underlying write failure, nil if the channel was not open
	Err error
}

func (e *WriteError) Error() string {
	if e.Err == nil {
		return "write: transport not connected"
	}
	return fmt.Sprintf("write: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// TimeoutError indicates the requested byte count did not arrive in time.
type TimeoutError struct {
	// Want is the number of bytes requested
	Want int

	// Have is the number of bytes that were available when the timeout
	// elapsed
	Have int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("read timeout: wanted %d bytes, %d available", e.Want, e.Have)
}
