// Package firmware parses firmware container files into address-tagged
// segments ready for flashing.
//
// # Containers
//
// Three formats are supported:
//
//   - Raw binary: the whole file verbatim at a caller-supplied base address
//     (DefaultBaseAddress, 0x08000000, for AT32 flash).
//   - Intel HEX: data records coalesced into contiguous segments, honoring
//     extended segment (type 02) and extended linear (type 04) address
//     records and stopping at end-of-file (type 01).
//   - ELF32: every PT_LOAD program header with a non-zero file size, loaded
//     at its physical address. Little- and big-endian objects are handled;
//     64-bit objects are rejected.
//
// # Usage
//
// Pick a parser directly, or let Parse sniff the format:
//
//	segs, err := firmware.Parse("app.hex", data)
//	if err != nil {
//	    return err
//	}
//	for _, seg := range segs {
//	    fmt.Printf("0x%08X: %d bytes\n", seg.Address, len(seg.Data))
//	}
//
// All parsers are pure: they either return the complete segment list in file
// declaration order, or a *FormatError / *UnsupportedError and no segments.
package firmware
