package firmware

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestParseBin(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	segs := ParseBin(data, DefaultBaseAddress)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Address != 0x08000000 {
		t.Errorf("Address = 0x%08X, want 0x08000000", segs[0].Address)
	}
	if !bytes.Equal(segs[0].Data, data) {
		t.Errorf("Data = % X, want % X", segs[0].Data, data)
	}

	// The segment owns its bytes; mutating the input must not leak in.
	data[0] = 0x00
	if segs[0].Data[0] != 0xDE {
		t.Error("segment data aliases the caller's buffer")
	}
}

func TestParseBinCustomBase(t *testing.T) {
	segs := ParseBin([]byte{0x01}, 0x20000000)
	if segs[0].Address != 0x20000000 {
		t.Errorf("Address = 0x%08X, want 0x20000000", segs[0].Address)
	}
}

func TestParseSniffing(t *testing.T) {
	hexInput := []byte(record(0x0000, 0x00, []byte{0x42}) + "\n" + record(0, 0x01, nil) + "\n")
	elfInput := makeELF(binary.LittleEndian, []progHeader{
		{ptype: phTypeLoad, offset: uint32(elfHeaderSize + 32), paddr: 0x08000000, filesz: 2},
	}, []byte{0x11, 0x22})
	binInput := []byte{0x00, 0x01, 0x02}

	tests := []struct {
		name     string
		file     string
		data     []byte
		wantAddr uint32
		wantLen  int
	}{
		{"hex by extension", "app.hex", hexInput, 0x0000, 1},
		{"elf by extension", "app.elf", elfInput, 0x08000000, 2},
		{"bin by extension", "app.bin", binInput, DefaultBaseAddress, 3},
		{"elf by magic", "app", elfInput, 0x08000000, 2},
		{"hex by content", "app.txt", hexInput, 0x0000, 1},
		{"fallback to bin", "app.img", binInput, DefaultBaseAddress, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := Parse(tt.file, tt.data)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(segs) != 1 {
				t.Fatalf("got %d segments, want 1", len(segs))
			}
			if segs[0].Address != tt.wantAddr || len(segs[0].Data) != tt.wantLen {
				t.Errorf("segment = 0x%X/%d bytes, want 0x%X/%d",
					segs[0].Address, len(segs[0].Data), tt.wantAddr, tt.wantLen)
			}
		})
	}
}

func TestTotalSize(t *testing.T) {
	segs := []Segment{
		{Address: 0x08000000, Data: make([]byte, 100)},
		{Address: 0x08001000, Data: make([]byte, 28)},
	}
	if got := TotalSize(segs); got != 128 {
		t.Errorf("TotalSize() = %d, want 128", got)
	}
	if got := TotalSize(nil); got != 0 {
		t.Errorf("TotalSize(nil) = %d, want 0", got)
	}
}

func TestSegmentEnd(t *testing.T) {
	s := Segment{Address: 0x08000000, Data: make([]byte, 256)}
	if s.End() != 0x08000100 {
		t.Errorf("End() = 0x%08X, want 0x08000100", s.End())
	}
}
