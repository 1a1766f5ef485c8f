package protocol

// Checksum computes the running XOR checksum protecting a frame's bytes.
// The bootloader applies it to address frames (over the 4 address bytes) and
// data frames (over the length byte and every data byte).
func Checksum(data []byte) byte {
	var x byte
	for _, b := range data {
		x ^= b
	}
	return x
}

// complement returns the inverted opcode byte that follows every command.
func complement(opcode byte) byte {
	return opcode ^ 0xFF
}
