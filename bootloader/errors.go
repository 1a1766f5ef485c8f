package bootloader

import "fmt"

// VerificationError indicates that a read-back byte did not match what was
// programmed.
type VerificationError struct {
	// Address is the flash address of the first mismatching byte
	Address uint32

	// Expected is the byte that was written
	Expected byte

	// Actual is the byte read back
	Actual byte
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed at 0x%08X: wrote 0x%02X, read 0x%02X",
		e.Address, e.Expected, e.Actual)
}

// EmptyImageError indicates that the parsed firmware contains no bytes to
// program.
type EmptyImageError struct{}

func (e *EmptyImageError) Error() string {
	return "firmware image contains no data"
}
