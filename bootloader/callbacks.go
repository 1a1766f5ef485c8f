package bootloader

import "time"

// Programming phases reported through ProgressCallback.
const (
	// PhaseSyncing covers the handshake and device identification
	PhaseSyncing = "syncing"

	// PhaseErasing covers the global flash erase
	PhaseErasing = "erasing"

	// PhaseProgramming covers the chunked flash writes
	PhaseProgramming = "programming"

	// PhaseVerifying covers the read-back comparison
	PhaseVerifying = "verifying"

	// PhaseComplete is reported once after a successful run
	PhaseComplete = "complete"
)

// Progress describes the state of a programming run.
type Progress struct {
	// Phase is the current operation phase
	Phase string

	// BytesWritten is the number of firmware bytes written so far
	BytesWritten int

	// TotalBytes is the total number of firmware bytes to write
	TotalBytes int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// Elapsed is the time since the run started
	Elapsed time.Duration
}

// ProgressCallback is called during programming to report progress.
// Implementations should return quickly; the run blocks on them.
type ProgressCallback func(Progress)

// Logger is an optional logging interface. The orchestrator only logs
// through it when one is configured; the protocol and transport layers never
// log at all.
//
// Example with zap:
//
//	type zapAdapter struct{ s *zap.SugaredLogger }
//	func (a zapAdapter) Debug(msg string, kv ...interface{}) { a.s.Debugw(msg, kv...) }
//	func (a zapAdapter) Info(msg string, kv ...interface{})  { a.s.Infow(msg, kv...) }
//	func (a zapAdapter) Error(msg string, kv ...interface{}) { a.s.Errorw(msg, kv...) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
