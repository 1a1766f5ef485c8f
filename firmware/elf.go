package firmware

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ELF32 header layout.
const (
	elfClass32      = 1
	elfClass64      = 2
	elfDataLE       = 1
	elfDataBE       = 2
	elfHeaderSize   = 52
	elfPhoffOff     = 28
	elfPhentsizeOff = 42
	elfPhnumOff     = 44
	phTypeLoad      = 1
	phEntryMin      = 20 // fields read: p_type, p_offset, p_paddr, p_filesz
	elfContainer    = "elf"
)

var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

// ParseELF extracts the loadable segments of a 32-bit ELF object, in program
// header order. Each PT_LOAD header with a non-zero file size yields one
// segment at its physical address. 64-bit objects are rejected before any
// further header field is read; both little- and big-endian 32-bit objects
// are accepted.
func ParseELF(data []byte) ([]Segment, error) {
	if len(data) < len(elfMagic) || !bytes.Equal(data[:len(elfMagic)], elfMagic) {
		return nil, &FormatError{Container: elfContainer, Reason: "bad magic"}
	}
	if len(data) < 5 {
		return nil, &FormatError{Container: elfContainer, Reason: "truncated identification"}
	}
	// The class is judged before any other header field is read; a 64-bit
	// object is rejected even if the rest of the header is garbage.
	switch data[4] {
	case elfClass32:
	case elfClass64:
		return nil, &UnsupportedError{Container: elfContainer, Reason: "64-bit objects are not supported"}
	default:
		return nil, &FormatError{Container: elfContainer, Reason: fmt.Sprintf("unknown class 0x%02X", data[4])}
	}
	if len(data) < 6 {
		return nil, &FormatError{Container: elfContainer, Reason: "truncated identification"}
	}

	var bo binary.ByteOrder
	switch data[5] {
	case elfDataLE:
		bo = binary.LittleEndian
	case elfDataBE:
		bo = binary.BigEndian
	default:
		return nil, &FormatError{Container: elfContainer, Reason: fmt.Sprintf("unknown data encoding 0x%02X", data[5])}
	}

	if len(data) < elfHeaderSize {
		return nil, &FormatError{Container: elfContainer, Reason: "truncated header"}
	}
	phoff := int(bo.Uint32(data[elfPhoffOff:]))
	phentsize := int(bo.Uint16(data[elfPhentsizeOff:]))
	phnum := int(bo.Uint16(data[elfPhnumOff:]))
	if phnum > 0 && phentsize < phEntryMin {
		return nil, &FormatError{Container: elfContainer, Reason: fmt.Sprintf("program header entry size %d too small", phentsize)}
	}

	var segs []Segment
	for i := 0; i < phnum; i++ {
		off := phoff + i*phentsize
		if off < 0 || off+phEntryMin > len(data) {
			return nil, &FormatError{Container: elfContainer, Reason: fmt.Sprintf("program header %d out of bounds", i)}
		}
		if bo.Uint32(data[off:]) != phTypeLoad {
			continue
		}
		offset := bo.Uint32(data[off+4:])
		paddr := bo.Uint32(data[off+12:])
		filesz := bo.Uint32(data[off+16:])
		if filesz == 0 {
			continue
		}
		end := uint64(offset) + uint64(filesz)
		if end > uint64(len(data)) {
			return nil, &FormatError{Container: elfContainer, Reason: fmt.Sprintf("segment %d data out of bounds", i)}
		}
		payload := make([]byte, filesz)
		copy(payload, data[offset:end])
		segs = append(segs, Segment{Address: paddr, Data: payload})
	}
	return segs, nil
}
