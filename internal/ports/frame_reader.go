package ports

import (
	"io"

	"github.com/itech-ahb/astmframe/internal/domain"
)

// FrameReader yields frames in the order the transport received them.
type FrameReader interface {
	// Next returns the next frame.
	// Returns io.EOF when the sequence is exhausted.
	Next() (domain.Frame, error)
}

// ErrNoMoreFrames indicates that the frame sequence is exhausted.
var ErrNoMoreFrames = io.EOF
