package firmware

import "fmt"

// FormatError indicates the input is malformed for its container format.
// The parse is aborted; no partial segment list is returned.
type FormatError struct {
	// Container names the format being parsed ("intel hex", "elf")
	Container string

	// Reason describes what was malformed
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Container, e.Reason)
}

// UnsupportedError indicates the input is well-formed but uses a feature
// this parser does not handle (e.g. a 64-bit ELF object).
type UnsupportedError struct {
	// Container names the format being parsed
	Container string

	// Reason describes the unsupported feature
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Container, e.Reason)
}
