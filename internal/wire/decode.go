package wire

import (
	"encoding/binary"
	"fmt"
)

// Status classifies the outcome of a structural decode. Failures are
// coarse-grained by phase so a caller can tell which section broke
// without needing label-level detail.
type Status int

const (
	// StatusOK means every declared section entry was fully and validly
	// traversed within the buffer.
	StatusOK Status = iota
	// StatusHeaderTooShort means the buffer is shorter than the fixed
	// 12-byte header; no fields were read.
	StatusHeaderTooShort
	// StatusBadQuestion means a declared question entry failed to parse.
	StatusBadQuestion
	// StatusBadAnswer means a declared answer record failed to parse.
	StatusBadAnswer
	// StatusBadAuthority means a declared authority record failed to parse.
	StatusBadAuthority
	// StatusBadAdditional means a declared additional record failed to parse.
	StatusBadAdditional
)

var statusNames = map[Status]string{
	StatusOK:             "ok",
	StatusHeaderTooShort: "header_too_short",
	StatusBadQuestion:    "bad_question",
	StatusBadAnswer:      "bad_answer",
	StatusBadAuthority:   "bad_authority",
	StatusBadAdditional:  "bad_additional",
}

// String returns a stable snake_case name, used as-is in logs, the audit
// store, and API responses.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Summary is the result of structurally decoding one message.
//
// Header is populated whenever the buffer held at least 12 bytes, even if
// a later section failed; it is informational in that case and a caller
// must treat any non-OK status as "reject this packet".
type Summary struct {
	Header Header
	Status Status
}

// OK reports whether the message was structurally valid.
func (s Summary) OK() bool {
	return s.Status == StatusOK
}

// Decode structurally validates a DNS message: the fixed header, then the
// four repeated sections (questions, answers, authority, additional),
// each iterated exactly the number of times the header declares.
//
// Decode is a pure function over msg: it never mutates the buffer, never
// retains a reference to it, and completes in time bounded by len(msg).
// It is safe to call concurrently.
func Decode(msg []byte) Summary {
	if len(msg) < HeaderSize {
		return Summary{Status: StatusHeaderTooShort}
	}

	s := Summary{Header: parseHeader(msg)}
	pos := HeaderSize

	var err error
	for range s.Header.QDCount {
		if pos, err = skipQuestion(msg, pos); err != nil {
			s.Status = StatusBadQuestion
			return s
		}
	}
	for range s.Header.ANCount {
		if pos, err = skipRecord(msg, pos); err != nil {
			s.Status = StatusBadAnswer
			return s
		}
	}
	for range s.Header.NSCount {
		if pos, err = skipRecord(msg, pos); err != nil {
			s.Status = StatusBadAuthority
			return s
		}
	}
	for range s.Header.ARCount {
		if pos, err = skipRecord(msg, pos); err != nil {
			s.Status = StatusBadAdditional
			return s
		}
	}
	return s
}

// skipName advances past one possibly-compressed name starting at pos and
// returns the position where the caller resumes parsing.
//
// When the name uses a compression pointer, the resume position is two
// bytes past the first pointer in the original stream, not past the
// terminator found at the jump target. Pointers must reference strictly
// earlier offsets; together with the buffer's finite length this bounds
// the walk, so no visited-set or depth counter is needed.
func skipName(msg []byte, pos int) (int, error) {
	jumped := false
	anchor := pos

	for pos < len(msg) {
		labelLen := msg[pos]

		// Zero-length label terminates the name.
		if labelLen == 0 {
			if !jumped {
				return pos + 1, nil
			}
			return anchor + 2, nil
		}

		// Compression pointer: high two bits set (11xxxxxx).
		if labelLen&0xC0 == 0xC0 {
			if pos+1 >= len(msg) {
				return 0, fmt.Errorf("%w: pointer needs a second byte at offset %d", ErrTruncated, pos)
			}
			offset := int(labelLen&0x3F)<<8 | int(msg[pos+1])
			if offset >= pos {
				return 0, fmt.Errorf("%w: offset %d at position %d does not point backward", ErrPointer, offset, pos)
			}
			if !jumped {
				anchor = pos
				jumped = true
			}
			pos = offset
			continue
		}

		// Regular label: length byte plus the label itself.
		pos += 1 + int(labelLen)
	}

	return 0, fmt.Errorf("%w: name runs past end of message", ErrTruncated)
}

// skipQuestion advances past one question entry: QNAME, then QTYPE and
// QCLASS (2 bytes each).
func skipQuestion(msg []byte, pos int) (int, error) {
	pos, err := skipName(msg, pos)
	if err != nil {
		return 0, err
	}
	if pos+4 > len(msg) {
		return 0, fmt.Errorf("%w: question needs 4 bytes after name", ErrTruncated)
	}
	return pos + 4, nil
}

// skipRecord advances past one resource record: NAME, the 10-byte fixed
// part (TYPE 2 + CLASS 2 + TTL 4 + RDLENGTH 2), then RDLENGTH bytes of
// RDATA. RDATA is skipped wholesale, never interpreted.
func skipRecord(msg []byte, pos int) (int, error) {
	pos, err := skipName(msg, pos)
	if err != nil {
		return 0, err
	}
	if pos+10 > len(msg) {
		return 0, fmt.Errorf("%w: record needs 10 bytes after name", ErrTruncated)
	}
	rdlength := int(binary.BigEndian.Uint16(msg[pos+8 : pos+10]))
	end := pos + 10 + rdlength
	if end > len(msg) {
		return 0, fmt.Errorf("%w: rdlength %d overruns message", ErrTruncated, rdlength)
	}
	return end, nil
}
