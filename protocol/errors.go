package protocol

import "fmt"

// NackError indicates the device explicitly rejected a command.
type NackError struct {
	// Operation is the command that was rejected
	Operation string
}

func (e *NackError) Error() string {
	return fmt.Sprintf("%s: device rejected command (NACK)", e.Operation)
}

// UnexpectedByteError indicates a malformed response: the device sent a byte
// that is neither ACK nor NACK where an acknowledgment was expected.
type UnexpectedByteError struct {
	// Operation is the command whose response was malformed
	Operation string

	// Expected is the byte the protocol called for
	Expected byte

	// Actual is the byte the device sent
	Actual byte
}

func (e *UnexpectedByteError) Error() string {
	return fmt.Sprintf("%s: expected 0x%02X, got 0x%02X", e.Operation, e.Expected, e.Actual)
}

// RangeError indicates a caller violated a length or count precondition
// before any byte was sent.
type RangeError struct {
	// Operation is the command whose argument was out of range
	Operation string

	// Value is the offending argument
	Value int

	// Min and Max bound the accepted range (inclusive)
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %d is out of range [%d,%d]", e.Operation, e.Value, e.Min, e.Max)
}
