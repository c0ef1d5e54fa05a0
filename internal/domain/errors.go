package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the framing layer.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrFrameParsing is returned when a frame sequence cannot be reassembled
	// into a message. Use errors.As with *FrameParsingError for details.
	ErrFrameParsing = errors.New("astm: frame parsing failed")

	// ErrInvalidMaxTextSize is returned when the maximum frame text size is not positive.
	ErrInvalidMaxTextSize = errors.New("astm: max text size must be positive")

	// ErrIncompleteMessage is returned by strict reassembly when no terminator
	// record closed a record.
	ErrIncompleteMessage = errors.New("astm: incomplete message")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("astm: invalid configuration")
)

// FrameParsingError reports the frame that stopped reassembly.
// It unwraps to ErrFrameParsing.
type FrameParsingError struct {
	// Index is the 0-based position of the frame in the input sequence.
	Index int

	// Type is the frame type that could not be classified.
	Type FrameType
}

func (e *FrameParsingError) Error() string {
	return fmt.Sprintf("astm: frame %d has unrecognized type %s so message cannot be reconstructed", e.Index, e.Type)
}

// Unwrap returns ErrFrameParsing.
func (e *FrameParsingError) Unwrap() error {
	return ErrFrameParsing
}

// InvalidMaxTextSize wraps ErrInvalidMaxTextSize with the rejected value.
func InvalidMaxTextSize(size int) error {
	return fmt.Errorf("%w: got %d", ErrInvalidMaxTextSize, size)
}
