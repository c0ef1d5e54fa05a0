package domain

import (
	"fmt"
	"strings"
)

// FrameNumberModulus is the size of the frame number cycle (1..7, 0, 1, ...).
const FrameNumberModulus = 8

// DefaultMaxTextSize is the ASTM E1381 limit on frame text, in characters.
const DefaultMaxTextSize = 240

// FrameType classifies a frame within a transmission.
// The zero value is FrameTypeUnknown so an unset type is never mistaken for
// a valid one.
type FrameType int

const (
	// FrameTypeUnknown is an unclassified frame.
	FrameTypeUnknown FrameType = iota

	// FrameTypeIntermediate means more frames follow for this record.
	FrameTypeIntermediate

	// FrameTypeEnd is the last frame of a transmission unit.
	FrameTypeEnd

	// FrameTypeStart is reserved for dialects that mark the first frame.
	// Nothing in this module produces it.
	FrameTypeStart
)

// String returns the wire name of the frame type.
func (t FrameType) String() string {
	switch t {
	case FrameTypeIntermediate:
		return "INTERMEDIATE"
	case FrameTypeEnd:
		return "END"
	case FrameTypeStart:
		return "START"
	case FrameTypeUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("FrameType(%d)", int(t))
	}
}

// ParseFrameType converts a wire name back to a FrameType.
// Matching is case-insensitive. Unrecognized names yield FrameTypeUnknown
// and false.
func ParseFrameType(s string) (FrameType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INTERMEDIATE":
		return FrameTypeIntermediate, true
	case "END":
		return FrameTypeEnd, true
	case "START":
		return FrameTypeStart, true
	default:
		return FrameTypeUnknown, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t FrameType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unknown names decode to FrameTypeUnknown without error so that the
// reassembler, not the decoder, decides what to do with them.
func (t *FrameType) UnmarshalText(b []byte) error {
	*t, _ = ParseFrameType(string(b))
	return nil
}

// Frame is the unit of wire transmission.
type Frame struct {
	// Text is a bounded slice of record text.
	Text string

	// Type is the frame kind.
	Type FrameType

	// FrameNumber is the cyclic sequence number, 0..7.
	FrameNumber int
}

// String renders the frame for trace logs.
func (f Frame) String() string {
	return fmt.Sprintf("frame{n=%d type=%s text=%q}", f.FrameNumber, f.Type, f.Text)
}

// FrameNumberAt returns the frame number for the frame at the 0-based index
// of an outbound sequence.
func FrameNumberAt(index int) int {
	return (index + 1) % FrameNumberModulus
}
