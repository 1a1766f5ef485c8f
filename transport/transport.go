package transport

import "time"

// Default line configuration for the AT32 UART bootloader (115200-8-E-1).
const (
	DefaultBaudRate = 115200
	DefaultDataBits = 8
)

// Parity is the serial line parity setting.
type Parity int

const (
	// NoParity disables the parity bit
	NoParity Parity = iota

	// OddParity sets odd parity
	OddParity

	// EvenParity sets even parity (the bootloader default)
	EvenParity
)

// StopBits is the number of serial stop bits.
type StopBits int

const (
	// OneStopBit uses a single stop bit (the bootloader default)
	OneStopBit StopBits = iota

	// TwoStopBits uses two stop bits
	TwoStopBits
)

// Config describes the serial line configuration used by Connect.
type Config struct {
	// Port is the serial device name (e.g. "/dev/ttyUSB0" or "COM3")
	Port string

	// BaudRate is the line speed in bits per second
	BaudRate int

	// DataBits is the number of data bits per character
	DataBits int

	// Parity is the parity setting
	Parity Parity

	// StopBits is the number of stop bits
	StopBits StopBits
}

// DefaultConfig returns the bootloader default line configuration
// (115200 baud, 8 data bits, even parity, 1 stop bit) for the given port.
func DefaultConfig(port string) Config {
	return Config{
		Port:     port,
		BaudRate: DefaultBaudRate,
		DataBits: DefaultDataBits,
		Parity:   EvenParity,
		StopBits: OneStopBit,
	}
}

// Transport is a byte-stream channel to a bootloader device.
//
// Incoming bytes are collected continuously in a receive buffer so that a
// response arriving before Read is called is never lost. Read consumes from
// the front of that buffer in strict FIFO order.
//
// Implementations are not safe for concurrent Read calls; the protocol layer
// issues one request/response exchange at a time.
type Transport interface {
	// Connect opens the channel with the given line configuration and
	// starts collecting incoming bytes.
	Connect(cfg Config) error

	// Disconnect stops the background collection, releases the channel and
	// promptly fails any Read currently waiting for data. Bytes already
	// buffered remain readable until Flush discards them.
	Disconnect() error

	// Write sends p as a single write.
	Write(p []byte) error

	// Read blocks until count bytes are buffered or timeout elapses.
	// On success it removes and returns exactly count bytes from the front
	// of the buffer. On timeout it returns a *TimeoutError carrying how
	// many bytes were actually available.
	Read(count int, timeout time.Duration) ([]byte, error)

	// Flush discards all currently buffered bytes without closing the
	// channel.
	Flush()
}
