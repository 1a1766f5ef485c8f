package protocol

import (
	"fmt"
	"time"

	"github.com/HumpbackLab/go-at32isp/transport"
)

// Engine drives the bootloader wire protocol over a connected Transport.
// Every operation is a complete synchronous request/response exchange; no
// command is issued while another's response is outstanding.
//
// Engine never logs; failures surface as typed errors for the caller.
type Engine struct {
	tr transport.Transport
}

// New returns an Engine over the given transport. The transport must already
// be connected.
func New(tr transport.Transport) *Engine {
	if tr == nil {
		panic("transport cannot be nil")
	}
	return &Engine{tr: tr}
}

// Sync performs the handshake: stale buffered bytes are flushed, the sync
// byte is sent, and the device must answer ACK within one second.
func (e *Engine) Sync() error {
	e.tr.Flush()
	if err := e.tr.Write([]byte{SyncByte}); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return e.readAck("sync", ackTimeout)
}

// GetCommands sends GET and returns the bootloader version together with the
// list of supported opcodes.
func (e *Engine) GetCommands() (Capabilities, error) {
	const op = "get commands"
	var caps Capabilities
	if err := e.sendCommand(op, CmdGet); err != nil {
		return caps, err
	}
	n, err := e.readByte(op)
	if err != nil {
		return caps, err
	}
	body, err := e.readBytes(op, int(n)+1, dataTimeout)
	if err != nil {
		return caps, err
	}
	if err := e.readAck(op, ackTimeout); err != nil {
		return caps, err
	}
	caps.Version = body[0]
	caps.Commands = body[1:]
	return caps, nil
}

// GetVersion sends GET_VERSION and returns the bootloader version byte and
// the two option bytes.
func (e *Engine) GetVersion() (BootloaderVersion, error) {
	const op = "get version"
	var ver BootloaderVersion
	if err := e.sendCommand(op, CmdGetVersion); err != nil {
		return ver, err
	}
	v, err := e.readByte(op)
	if err != nil {
		return ver, err
	}
	opts, err := e.readBytes(op, 2, dataTimeout)
	if err != nil {
		return ver, err
	}
	if err := e.readAck(op, ackTimeout); err != nil {
		return ver, err
	}
	ver.Version = v
	ver.OptionBytes = [2]byte{opts[0], opts[1]}
	return ver, nil
}

// GetID sends GET_ID and decodes the device identity.
//
// The five identity bytes do not arrive in natural order. As observed on
// hardware, byte 0 holds PID bits 0-7, byte 1 bits 8-15, byte 2 bits 24-31,
// byte 3 bits 16-23, and byte 4 is the project id. The reordering is
// preserved exactly; "correcting" it would break real devices.
func (e *Engine) GetID() (DeviceIdentity, error) {
	const op = "get id"
	var id DeviceIdentity
	if err := e.sendCommand(op, CmdGetID); err != nil {
		return id, err
	}
	n, err := e.readByte(op)
	if err != nil {
		return id, err
	}
	raw, err := e.readBytes(op, int(n)+1, dataTimeout)
	if err != nil {
		return id, err
	}
	if err := e.readAck(op, ackTimeout); err != nil {
		return id, err
	}
	if len(raw) < 5 {
		return id, fmt.Errorf("%s: identity payload too short (%d bytes)", op, len(raw))
	}
	id.ProductID = uint32(raw[2])<<24 | uint32(raw[3])<<16 | uint32(raw[1])<<8 | uint32(raw[0])
	id.ProjectID = raw[4]
	return id, nil
}

// ReadMemory reads length bytes starting at address. Length must be in
// [1,256].
func (e *Engine) ReadMemory(address uint32, length int) ([]byte, error) {
	const op = "read memory"
	if length < 1 || length > MaxChunkSize {
		return nil, &RangeError{Operation: op, Value: length, Min: 1, Max: MaxChunkSize}
	}
	if err := e.sendCommand(op, CmdReadMemory); err != nil {
		return nil, err
	}
	if err := e.sendAddress(op, address); err != nil {
		return nil, err
	}
	n := byte(length - 1)
	if err := e.tr.Write([]byte{n, 0xFF ^ n}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := e.readAck(op, ackTimeout); err != nil {
		return nil, err
	}
	return e.readBytes(op, length, dataTimeout)
}

// WriteMemory writes data starting at address. The data length must be in
// [1,256]; the caller slices larger images into chunks.
func (e *Engine) WriteMemory(address uint32, data []byte) error {
	const op = "write memory"
	if len(data) < 1 || len(data) > MaxChunkSize {
		return &RangeError{Operation: op, Value: len(data), Min: 1, Max: MaxChunkSize}
	}
	if err := e.sendCommand(op, CmdWriteMemory); err != nil {
		return err
	}
	if err := e.sendAddress(op, address); err != nil {
		return err
	}

	// Frame: zero-based length, data, then XOR of length byte and data.
	frame := make([]byte, 0, len(data)+2)
	frame = append(frame, byte(len(data)-1))
	frame = append(frame, data...)
	frame = append(frame, Checksum(frame))
	if err := e.tr.Write(frame); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return e.readAck(op, ackTimeout)
}

// EraseAll performs the global flash erase. The final acknowledgment uses an
// extended timeout; a full-chip erase takes seconds on-device.
func (e *Engine) EraseAll() error {
	const op = "erase all"
	if err := e.sendCommand(op, CmdErase); err != nil {
		return err
	}
	// Global erase payload: two 0xFF bytes and their XOR checksum.
	if err := e.tr.Write([]byte{0xFF, 0xFF, 0x00}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return e.readAck(op, eraseTimeout)
}

// FirmwareCRC asks the device to compute the CRC over sectorCount sectors
// starting at address. SectorCount must be in [1,65536]. The 4 CRC bytes
// arrive most-significant byte first.
func (e *Engine) FirmwareCRC(address uint32, sectorCount int) (uint32, error) {
	const op = "firmware crc"
	if sectorCount < 1 || sectorCount > MaxSectorCount {
		return 0, &RangeError{Operation: op, Value: sectorCount, Min: 1, Max: MaxSectorCount}
	}
	if err := e.sendCommand(op, CmdFirmwareCRC); err != nil {
		return 0, err
	}
	if err := e.sendAddress(op, address); err != nil {
		return 0, err
	}
	n := sectorCount - 1
	msb, lsb := byte(n>>8), byte(n)
	if err := e.tr.Write([]byte{msb, lsb, msb ^ lsb ^ 0xFF}); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := e.readAck(op, ackTimeout); err != nil {
		return 0, err
	}
	raw, err := e.readBytes(op, 4, crcTimeout)
	if err != nil {
		return 0, err
	}
	return uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3]), nil
}

// Go jumps the device to the application at address. After the address is
// acknowledged the bootloader transfers control and sends nothing further.
func (e *Engine) Go(address uint32) error {
	const op = "go"
	if err := e.sendCommand(op, CmdGo); err != nil {
		return err
	}
	return e.sendAddress(op, address)
}

// sendCommand writes the opcode and its complement and consumes the
// acknowledgment.
func (e *Engine) sendCommand(op string, opcode byte) error {
	if err := e.tr.Write([]byte{opcode, complement(opcode)}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return e.readAck(op, ackTimeout)
}

// sendAddress writes the 4 address bytes most-significant first, their XOR
// checksum, and consumes the acknowledgment.
func (e *Engine) sendAddress(op string, address uint32) error {
	frame := []byte{
		byte(address >> 24),
		byte(address >> 16),
		byte(address >> 8),
		byte(address),
	}
	frame = append(frame, Checksum(frame))
	if err := e.tr.Write(frame); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return e.readAck(op, ackTimeout)
}

func (e *Engine) readAck(op string, timeout time.Duration) error {
	raw, err := e.tr.Read(1, timeout)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch raw[0] {
	case ACK:
		return nil
	case NACK:
		return &NackError{Operation: op}
	default:
		return &UnexpectedByteError{Operation: op, Expected: ACK, Actual: raw[0]}
	}
}

func (e *Engine) readByte(op string) (byte, error) {
	raw, err := e.tr.Read(1, dataTimeout)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return raw[0], nil
}

func (e *Engine) readBytes(op string, count int, timeout time.Duration) ([]byte, error) {
	raw, err := e.tr.Read(count, timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}
