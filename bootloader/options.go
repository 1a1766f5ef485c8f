package bootloader

import "github.com/HumpbackLab/go-at32isp/protocol"

// Config holds the programmer configuration.
type Config struct {
	// ProgressCallback is called during programming to report progress
	// (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// ChunkSize is the number of bytes per write memory command, at most
	// protocol.MaxChunkSize
	ChunkSize int

	// Erase performs a global erase before programming
	Erase bool

	// Verify reads every programmed chunk back and compares it
	Verify bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ChunkSize: protocol.MaxChunkSize,
		Erase:     true,
		Verify:    true,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithProgressCallback sets a callback function to track programming
// progress.
//
// Example:
//
//	prog := bootloader.New(eng,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the programmer operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithChunkSize sets the number of bytes written per command.
// Values outside [1, protocol.MaxChunkSize] are ignored.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= protocol.MaxChunkSize {
			c.ChunkSize = size
		}
	}
}

// WithErase enables or disables the global erase before programming.
// Default is true.
func WithErase(erase bool) Option {
	return func(c *Config) {
		c.Erase = erase
	}
}

// WithVerify enables or disables read-back verification after programming.
// Default is true.
func WithVerify(verify bool) Option {
	return func(c *Config) {
		c.Verify = verify
	}
}
