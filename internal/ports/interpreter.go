package ports

import "github.com/itech-ahb/astmframe/internal/domain"

// Interpreter converts between the three data tiers of an ASTM conversation.
// Implementations must be safe for concurrent use; each call owns its input.
type Interpreter interface {
	// FramesToMessage reassembles received frames into a message.
	// Returns an error wrapping domain.ErrFrameParsing when a frame cannot be
	// classified. A message with no records means no terminator was seen.
	FramesToMessage(frames []domain.Frame) (domain.Message, error)

	// MessageToFrames chunks every record of the message and numbers the
	// resulting frames across the whole message.
	MessageToFrames(message domain.Message) ([]domain.Frame, error)

	// RecordsToMessage builds a message from records.
	RecordsToMessage(records []domain.Record) domain.Message

	// TextToRecord builds a single record from text.
	TextToRecord(text string) domain.Record

	// TextToMessage builds a message from line-separated text.
	TextToMessage(text string) domain.Message
}
