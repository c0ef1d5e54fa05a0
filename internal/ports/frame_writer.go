package ports

import "github.com/itech-ahb/astmframe/internal/domain"

// FrameWriter accepts outbound frames in transmission order.
type FrameWriter interface {
	// WriteFrame hands one frame to the transport or a dump file.
	WriteFrame(frame domain.Frame) error
}
