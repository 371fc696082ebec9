// Package wire implements structural validation of DNS messages in wire
// format (RFC 1035 Section 4).
//
// Unlike a full codec, this package never extracts names or interprets
// RDATA: it walks the message with a cursor, verifying that every declared
// section entry fits inside the buffer, and reports a per-phase status.
// This makes it suitable for inspecting attacker-controlled traffic where
// the only question is "is this packet structurally sound, and if not,
// where does it break?".
//
// Error Handling:
//
// Sub-parsers return sentinel errors (ErrTruncated, ErrPointer) wrapped
// with context using fmt.Errorf("...: %w", err). The top-level Decode
// never returns an error: malformed input is an expected outcome, reported
// as a Status value in the Summary.
package wire

import "errors"

var (
	// ErrTruncated indicates the message ended before a declared
	// structure was complete.
	ErrTruncated = errors.New("wire: truncated message")

	// ErrPointer indicates a compression pointer that does not point
	// strictly backward. Genuine RFC 1035 compression always references
	// earlier data; forward or self references are rejected outright,
	// which also rules out pointer loops.
	ErrPointer = errors.New("wire: invalid compression pointer")
)
