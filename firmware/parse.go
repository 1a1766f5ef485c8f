package firmware

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Parse normalizes an arbitrary firmware file into segments, picking the
// container parser from the file extension when it is telling, otherwise
// from the content. Unrecognized inputs are treated as raw binary at
// DefaultBaseAddress.
func Parse(name string, data []byte) ([]Segment, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hex", ".ihx":
		return ParseHex(data)
	case ".elf", ".axf":
		return ParseELF(data)
	case ".bin":
		return ParseBin(data, DefaultBaseAddress), nil
	}
	if bytes.HasPrefix(data, elfMagic) {
		return ParseELF(data)
	}
	if looksLikeHex(data) {
		return ParseHex(data)
	}
	return ParseBin(data, DefaultBaseAddress), nil
}

// looksLikeHex reports whether the first non-blank byte starts a HEX record.
func looksLikeHex(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}
