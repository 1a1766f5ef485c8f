package protocol

import "testing"

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{"empty", nil, 0x00},
		{"single byte", []byte{0xA5}, 0xA5},
		{"self-cancelling", []byte{0xFF, 0xFF}, 0x00},
		{"flash base address", []byte{0x08, 0x00, 0x00, 0x00}, 0x08},
		{"mixed", []byte{0x01, 0x02, 0x04, 0x08}, 0x0F},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum(% X) = 0x%02X, want 0x%02X", tt.data, got, tt.want)
			}
		})
	}
}

func TestComplement(t *testing.T) {
	opcodes := []byte{CmdGet, CmdGetVersion, CmdGetID, CmdReadMemory, CmdGo, CmdWriteMemory, CmdErase, CmdFirmwareCRC}
	for _, op := range opcodes {
		if op^complement(op) != 0xFF {
			t.Errorf("complement(0x%02X) = 0x%02X, does not invert", op, complement(op))
		}
	}
}
