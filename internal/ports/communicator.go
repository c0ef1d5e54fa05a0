package ports

// Communicator is the transport side of the framing layer. It performs the
// ENQ/ACK/NAK handshake and wraps frames in STX/ETX envelopes; the framing
// core only asks it how much text fits in one frame.
type Communicator interface {
	// MaxTextSize returns the maximum number of text characters per frame.
	MaxTextSize() int
}
