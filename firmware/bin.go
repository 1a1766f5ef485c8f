package firmware

// ParseBin wraps a raw binary image as a single segment at base. Raw images
// carry no addressing, so the caller supplies the base; DefaultBaseAddress
// is the usual choice.
func ParseBin(data []byte, base uint32) []Segment {
	payload := make([]byte, len(data))
	copy(payload, data)
	return []Segment{{Address: base, Data: payload}}
}
