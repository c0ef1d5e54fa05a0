// Package astmframe splits ASTM E1394 messages into LIS01-A2 frames and
// reassembles received frames back into records.
//
// Example usage:
//
//	msg := astmframe.NewMessageFromText("H|\\^&\nP|1\nL|1|N\n")
//	frames, err := astmframe.Chunk(msg, astmframe.DefaultMaxTextSize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	back, err := astmframe.Reassemble(frames)
//	if err != nil {
//	    log.Fatal(err)
//	}
package astmframe

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/itech-ahb/astmframe/internal/adapters/fs"
	"github.com/itech-ahb/astmframe/internal/spool"
	"github.com/itech-ahb/astmframe/pkg/interpret"
	"github.com/itech-ahb/astmframe/pkg/log"
)

// Frame is one framed chunk of record text.
type Frame = interpret.Frame

// FrameType classifies a frame as intermediate or end.
type FrameType = interpret.FrameType

// Record is one ASTM record, CR terminator included.
type Record = interpret.Record

// Message is an ordered sequence of records.
type Message = interpret.Message

// FrameParsingError reports a frame whose type cannot be classified.
type FrameParsingError = interpret.FrameParsingError

// Frame types.
const (
	FrameTypeIntermediate = interpret.FrameTypeIntermediate
	FrameTypeEnd          = interpret.FrameTypeEnd
)

// DefaultMaxTextSize is the LIS01-A2 maximum frame text size.
const DefaultMaxTextSize = interpret.DefaultMaxTextSize

// Errors returned by the framing operations.
var (
	ErrFrameParsing       = interpret.ErrFrameParsing
	ErrInvalidMaxTextSize = interpret.ErrInvalidMaxTextSize
	ErrIncompleteMessage  = interpret.ErrIncompleteMessage
)

// NewRecord creates a record from its text.
func NewRecord(text string) Record { return interpret.NewRecord(text) }

// NewMessageFromText splits CR, LF or CRLF separated text into records.
func NewMessageFromText(text string) Message { return interpret.NewMessageFromText(text) }

// Chunk splits every record of message into numbered frames of at most
// maxTextSize bytes.
func Chunk(message Message, maxTextSize int) ([]Frame, error) {
	return interpret.ChunkMessage(message, maxTextSize)
}

// Reassemble rebuilds the records closed by message terminator frames.
// Frames after the last terminator are discarded.
func Reassemble(frames []Frame) (Message, error) {
	return interpret.Reassemble(frames)
}

// IsMessageTerminator reports whether frame ends a transmission.
func IsMessageTerminator(frame Frame) bool {
	return interpret.IsMessageTerminator(frame)
}

// NewFactory returns an interpreter factory; see interpret.NewFactory.
func NewFactory(opts ...interpret.Option) (*interpret.DefaultFactory, error) {
	return interpret.NewFactory(opts...)
}

// SpoolConfig configures WatchSpool.
type SpoolConfig = spool.Config

// WatchSpool processes frame dumps and message files in cfg.Dir until ctx is
// cancelled, or once when cfg.Once is set. Progress is kept in cfg.Dir.
func WatchSpool(ctx context.Context, cfg SpoolConfig, maxTextSize int, logger zerolog.Logger) error {
	adapter := log.NewZerologAdapterWithLogger(logger)
	factory, err := interpret.NewFactory(interpret.WithMaxTextSize(maxTextSize), interpret.WithLogger(adapter))
	if err != nil {
		return err
	}
	w, err := spool.New(cfg, factory, fs.NewStateFileRepository(cfg.Dir), adapter)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
