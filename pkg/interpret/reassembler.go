package interpret

import (
	"strings"

	"github.com/itech-ahb/astmframe/pkg/log"
)

// Reassemble folds received frames into a message in a single forward pass.
//
// INTERMEDIATE frames, and END frames without a terminator line, append
// their text to the pending record. An END frame carrying a terminator
// appends its text and closes one record from everything pending. Any other
// frame type fails the whole call with a *FrameParsingError and no message.
//
// Text after the last closing frame is dropped with the pending record; a
// result with no records means no terminator arrived.
//
// Open question: a plain append-unless-terminator fold would accept an
// unclassified frame that carries no terminator line and add its text to
// the pending record. Reassemble rejects every unclassified frame instead,
// terminator or not, so malformed input never leaks into a record.
func Reassemble(frames []Frame) (Message, error) {
	return reassemble(frames, log.NewNoopLogger())
}

// ReassembleStrict is Reassemble that also rejects incomplete transmissions
// with ErrIncompleteMessage.
func ReassembleStrict(frames []Frame) (Message, error) {
	msg, err := Reassemble(frames)
	if err != nil {
		return Message{}, err
	}
	if !msg.Complete() {
		return Message{}, ErrIncompleteMessage
	}
	return msg, nil
}

func reassemble(frames []Frame, logger log.Logger) (Message, error) {
	var (
		records []Record
		pending strings.Builder
	)

	for i, frame := range frames {
		logger.Trace("frame", log.Stringer("frame", frame))

		switch frame.Type {
		case FrameTypeIntermediate:
			pending.WriteString(frame.Text)

		case FrameTypeEnd:
			pending.WriteString(frame.Text)
			if !IsMessageTerminator(frame) {
				continue
			}
			record := NewRecord(pending.String())
			pending.Reset()
			records = append(records, record)
			logger.Trace("closed record", log.Int("index", len(records)-1), log.String("record", record.Text()))

		default:
			return Message{}, &FrameParsingError{Index: i, Type: frame.Type}
		}
	}

	if pending.Len() > 0 {
		logger.Debug("frames ended without a message terminator", log.Int("pending_bytes", pending.Len()))
	}
	return NewMessage(records...), nil
}
