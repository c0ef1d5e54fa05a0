// Package ports defines the interfaces (ports) that connect the framing core
// to the code around it.
//
// Ports are the boundaries between the chunker/reassembler and the outside
// world: the Communicator that owns the physical link, the codecs that read
// and write frame dumps, and the spool state store. They state what the core
// needs without saying how it is provided.
//
// # Port Interfaces
//
//   - [Interpreter]: Converts between frames, records, messages and text
//   - [Communicator]: Supplies the maximum frame text size of the link
//   - [FrameReader]: Yields received frames one at a time
//   - [FrameWriter]: Accepts outbound frames
//   - [StateRepository]: Persists spool progress
//   - [Logger]: Structured logging abstraction
package ports
