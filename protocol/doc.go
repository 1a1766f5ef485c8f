// Package protocol implements the AT32 UART bootloader wire protocol.
//
// # Protocol Overview
//
// The bootloader speaks a simple byte-oriented protocol over a serial line
// (115200-8-E-1 by default). Every exchange follows the same shape:
//
//	host:   [opcode, opcode^0xFF]
//	device: ACK (0x79) or NACK (0x1F)
//	host:   zero or more parameter frames, each XOR-checksummed
//	device: ACK per frame, then any response data, then a trailing ACK
//
// A session starts with the handshake: the host sends 0x7F and the device
// answers ACK once it has locked onto the baud rate.
//
// Address frames carry the 4 address bytes most-significant first followed
// by the XOR of all 4. Data frames carry a zero-based length byte, the data,
// and the XOR of length and data.
//
// # Usage
//
// Engine wraps a connected transport.Transport:
//
//	eng := protocol.New(tr)
//	if err := eng.Sync(); err != nil {
//	    return err
//	}
//	id, err := eng.GetID()
//	data, err := eng.ReadMemory(0x08000000, 256)
//	err = eng.WriteMemory(0x08000000, chunk)
//	err = eng.EraseAll()
//	crc, err := eng.FirmwareCRC(0x08000000, 16)
//
// All operations are synchronous; the engine issues one request and waits
// for its complete response before the next.
//
// # Error Handling
//
// Failures are typed: *NackError when the device rejects a command,
// *UnexpectedByteError when a response byte is malformed (carries expected
// vs actual), and *RangeError when a caller violates a length precondition
// before any byte is sent. Transport failures (timeouts, disconnection) are
// wrapped and unwrap to the transport package's error types.
package protocol
