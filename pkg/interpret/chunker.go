package interpret

import (
	"unicode/utf8"

	"github.com/itech-ahb/astmframe/internal/domain"
)

// ChunkRecord splits the record text into frames of at most maxTextSize
// bytes. Sizes count UTF-8 bytes, not characters: a cut backs off to the
// previous rune boundary, so frames holding multi-byte text may be shorter
// than maxTextSize. A single rune wider than maxTextSize is split. The last frame is END and all others INTERMEDIATE. An empty record
// yields a single empty END frame; no empty trailing frame is produced
// otherwise.
//
// Frame numbers are left at zero; use ChunkMessage or NumberFrames to assign
// them across a whole transmission.
func ChunkRecord(record Record, maxTextSize int) ([]Frame, error) {
	if maxTextSize <= 0 {
		return nil, domain.InvalidMaxTextSize(maxTextSize)
	}
	return chunkRecord(record.Text(), maxTextSize, nil), nil
}

// ChunkMessage chunks every record in order and numbers the concatenated
// frames 1..7, 0, 1, ... across the whole message.
func ChunkMessage(message Message, maxTextSize int) ([]Frame, error) {
	if maxTextSize <= 0 {
		return nil, domain.InvalidMaxTextSize(maxTextSize)
	}
	var frames []Frame
	for i := 0; i < message.Len(); i++ {
		frames = chunkRecord(message.Record(i).Text(), maxTextSize, frames)
	}
	NumberFrames(frames)
	return frames, nil
}

// NumberFrames assigns cyclic frame numbers by position in place.
func NumberFrames(frames []Frame) {
	for i := range frames {
		frames[i].FrameNumber = domain.FrameNumberAt(i)
	}
}

// chunkRecord appends the frames for text to dst.
func chunkRecord(text string, maxTextSize int, dst []Frame) []Frame {
	for {
		if len(text) <= maxTextSize {
			return append(dst, Frame{Text: text, Type: FrameTypeEnd})
		}
		n := cut(text, maxTextSize)
		dst = append(dst, Frame{Text: text[:n], Type: FrameTypeIntermediate})
		text = text[n:]
	}
}

// cut returns the split point for a chunk of at most max bytes, moved back
// to a rune boundary when one exists within the chunk.
func cut(text string, max int) int {
	n := max
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	if n == 0 {
		return max
	}
	return n
}
