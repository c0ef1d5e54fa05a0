// Package interpret implements the ASTM E1381/LIS01-A2 framing rules.
//
// Outbound, a [Message] is chunked into [Frame]s whose text never exceeds the
// Communicator's maximum text size; the last frame of each record is typed
// END and every other frame INTERMEDIATE. Frame numbers run 1..7, 0, 1, ...
// across the whole message.
//
// Inbound, received frames are reassembled into records. Text accumulates
// until a frame that is both END and carries a message terminator record
// (a last line starting with "L"); that frame closes one record holding all
// the text accumulated since the previous close.
//
// # Basic Usage
//
//	frames, err := interpret.ChunkMessage(msg, interpret.DefaultMaxTextSize)
//	...
//	msg, err := interpret.Reassemble(frames)
//	if errors.Is(err, interpret.ErrFrameParsing) {
//	    // discard and ask the transport to retransmit
//	}
//	if !msg.Complete() {
//	    // no terminator seen: incomplete transmission
//	}
//
// For logging and metrics, build an [Interpreter] with [New] and options, or
// obtain one from a [Factory].
//
// All functions are pure and safe for concurrent use on independent inputs.
package interpret
