package firmware

// DefaultBaseAddress is the flash base used for raw binary images that carry
// no address information of their own.
const DefaultBaseAddress uint32 = 0x08000000

// Segment is a run of firmware bytes tagged with its load address in the
// flat 32-bit address space. Segments need not be contiguous; their order is
// the order they were declared in the input file. A Segment is immutable
// once produced.
type Segment struct {
	// Address is the base address the data is loaded at
	Address uint32

	// Data is the segment payload
	Data []byte
}

// End returns the address one past the last byte of the segment.
func (s Segment) End() uint32 {
	return s.Address + uint32(len(s.Data))
}

// TotalSize returns the summed payload size of segs in bytes.
func TotalSize(segs []Segment) int {
	var n int
	for _, s := range segs {
		n += len(s.Data)
	}
	return n
}
