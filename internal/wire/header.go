package wire

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of a DNS header in bytes.
const HeaderSize = 12

// Flag masks for the 16-bit flags field (RFC 1035 Section 4.1.1).
const (
	QRFlag     uint16 = 0x8000 // Query (0) / Response (1)
	OpcodeMask uint16 = 0x7800 // 4-bit opcode, bits 14-11
	AAFlag     uint16 = 0x0400 // Authoritative Answer
	TCFlag     uint16 = 0x0200 // Truncated
	RDFlag     uint16 = 0x0100 // Recursion Desired
	RAFlag     uint16 = 0x0080 // Recursion Available
	RCodeMask  uint16 = 0x000F // 4-bit response code, bits 3-0
)

// Header holds the six fixed fields of a DNS message header, read
// big-endian from offsets 0, 2, 4, 6, 8 and 10.
type Header struct {
	ID      uint16 // Transaction ID
	Flags   uint16 // QR, Opcode, AA, TC, RD, RA, Z, RCODE
	QDCount uint16 // Question count
	ANCount uint16 // Answer count
	NSCount uint16 // Authority (nameserver) count
	ARCount uint16 // Additional records count
}

// parseHeader reads the fixed header from the start of msg.
// The caller must have verified len(msg) >= HeaderSize.
func parseHeader(msg []byte) Header {
	return Header{
		ID:      binary.BigEndian.Uint16(msg[0:2]),
		Flags:   binary.BigEndian.Uint16(msg[2:4]),
		QDCount: binary.BigEndian.Uint16(msg[4:6]),
		ANCount: binary.BigEndian.Uint16(msg[6:8]),
		NSCount: binary.BigEndian.Uint16(msg[8:10]),
		ARCount: binary.BigEndian.Uint16(msg[10:12]),
	}
}

// Marshal serializes the header to wire format (big-endian, 12 bytes).
// Used by tools and tests that need to synthesize packets.
func (h Header) Marshal() []byte {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(b[0:2], h.ID)
	binary.BigEndian.PutUint16(b[2:4], h.Flags)
	binary.BigEndian.PutUint16(b[4:6], h.QDCount)
	binary.BigEndian.PutUint16(b[6:8], h.ANCount)
	binary.BigEndian.PutUint16(b[8:10], h.NSCount)
	binary.BigEndian.PutUint16(b[10:12], h.ARCount)
	return b
}

// IsResponse returns true if the QR flag is set.
func (h Header) IsResponse() bool {
	return h.Flags&QRFlag != 0
}

// Opcode extracts the 4-bit opcode from the flags field (bits 14-11).
func (h Header) Opcode() uint16 {
	return (h.Flags & OpcodeMask) >> 11
}

// RCode extracts the 4-bit response code from the flags field.
func (h Header) RCode() uint16 {
	return h.Flags & RCodeMask
}

// Truncated returns true if the TC flag is set.
func (h Header) Truncated() bool {
	return h.Flags&TCFlag != 0
}

// RecursionDesired returns true if the RD flag is set.
func (h Header) RecursionDesired() bool {
	return h.Flags&RDFlag != 0
}

// String renders the header in dig-like form, for logs and tooling.
func (h Header) String() string {
	return fmt.Sprintf("id=%d flags=0x%04x qd=%d an=%d ns=%d ar=%d",
		h.ID, h.Flags, h.QDCount, h.ANCount, h.NSCount, h.ARCount)
}
