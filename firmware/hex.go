package firmware

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// Intel HEX record types.
const (
	recData          = 0x00
	recEOF           = 0x01
	recExtSegment    = 0x02
	recExtLinear     = 0x04
	recMinBytes      = 5 // len(1) + address(2) + type(1) + checksum(1)
	hexContainerName = "intel hex"
)

// ParseHex parses an Intel HEX image into segments.
//
// Lines not beginning with ':' are ignored. Consecutive data records are
// coalesced into one segment while their absolute addresses stay contiguous;
// a gap, an extended segment address record (type 02, value << 4), or an
// extended linear address record (type 04, value << 16) closes the current
// segment. An end-of-file record (type 01) stops processing; remaining lines
// are not examined. Segments are returned in the order they were closed.
func ParseHex(data []byte) ([]Segment, error) {
	var (
		segs     []Segment
		cur      Segment
		open     bool
		extended uint32
		records  int
	)
	closeSegment := func() {
		if open && len(cur.Data) > 0 {
			segs = append(segs, cur)
		}
		open = false
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] != ':' {
			continue
		}

		rec, err := decodeRecord(line[1:], lineNum)
		if err != nil {
			return nil, err
		}
		records++

		n := int(rec[0])
		address := uint32(rec[1])<<8 | uint32(rec[2])
		payload := rec[4 : 4+n]

		switch rec[3] {
		case recData:
			abs := extended + address
			if !open || cur.End() != abs {
				closeSegment()
				cur = Segment{Address: abs}
				open = true
			}
			cur.Data = append(cur.Data, payload...)
		case recEOF:
			closeSegment()
			return segs, nil
		case recExtSegment:
			if n < 2 {
				return nil, recordErr(lineNum, "extended segment address record too short")
			}
			extended = (uint32(payload[0])<<8 | uint32(payload[1])) << 4
			closeSegment()
		case recExtLinear:
			if n < 2 {
				return nil, recordErr(lineNum, "extended linear address record too short")
			}
			extended = (uint32(payload[0])<<8 | uint32(payload[1])) << 16
			closeSegment()
		default:
			// Start-address record types carry no flash data.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Container: hexContainerName, Reason: err.Error()}
	}
	if records == 0 {
		return nil, &FormatError{Container: hexContainerName, Reason: "no records found"}
	}

	closeSegment()
	return segs, nil
}

// decodeRecord hex-decodes one record body and validates its length and
// checksum. The record checksum is the two's complement of the byte sum, so
// summing every byte of a good record yields zero.
func decodeRecord(body string, lineNum int) ([]byte, error) {
	rec, err := hex.DecodeString(body)
	if err != nil {
		return nil, recordErr(lineNum, "invalid hex encoding")
	}
	if len(rec) < recMinBytes {
		return nil, recordErr(lineNum, "record too short")
	}
	if len(rec) < recMinBytes+int(rec[0]) {
		return nil, recordErr(lineNum, fmt.Sprintf("record data truncated: declared %d bytes, got %d", rec[0], len(rec)-recMinBytes))
	}
	var sum byte
	for _, b := range rec[:recMinBytes+int(rec[0])] {
		sum += b
	}
	if sum != 0 {
		return nil, recordErr(lineNum, "record checksum mismatch")
	}
	return rec, nil
}

func recordErr(lineNum int, reason string) error {
	return &FormatError{
		Container: hexContainerName,
		Reason:    fmt.Sprintf("line %d: %s", lineNum, reason),
	}
}
