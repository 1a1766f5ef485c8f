package protocol

import "time"

// Command opcodes per the AT32 UART bootloader protocol (AN3155-compatible).
const (
	// CmdGet reports the bootloader version and supported opcodes
	CmdGet = 0x00

	// CmdGetVersion reports the bootloader version and option bytes
	CmdGetVersion = 0x01

	// CmdGetID reports the product and project identifiers
	CmdGetID = 0x02

	// CmdReadMemory reads up to 256 bytes from an address
	CmdReadMemory = 0x11

	// CmdGo jumps to an application address
	CmdGo = 0x21

	// CmdWriteMemory writes up to 256 bytes to an address
	CmdWriteMemory = 0x31

	// CmdErase performs the extended (global) flash erase
	CmdErase = 0x44

	// CmdFirmwareCRC computes the on-device CRC over a sector range
	CmdFirmwareCRC = 0xAC
)

// Control bytes.
const (
	// ACK is the positive acknowledgment byte
	ACK = 0x79

	// NACK is the negative acknowledgment byte
	NACK = 0x1F

	// SyncByte starts the handshake and lets the bootloader detect the
	// line baud rate
	SyncByte = 0x7F
)

// MaxChunkSize is the largest byte count a single read or write memory
// command can carry.
const MaxChunkSize = 256

// MaxSectorCount is the largest sector count a firmware CRC command can
// cover (the on-wire count field is 16 bits, zero-based).
const MaxSectorCount = 0x10000

// Response timeouts. Erase and CRC run on-device and are slow; everything
// else answers within a character time or two.
const (
	ackTimeout   = 1000 * time.Millisecond
	dataTimeout  = 1000 * time.Millisecond
	eraseTimeout = 10 * time.Second
	crcTimeout   = 10 * time.Second
)
