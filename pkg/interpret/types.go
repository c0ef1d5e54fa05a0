package interpret

import (
	"github.com/itech-ahb/astmframe/internal/domain"
)

// Re-export domain types so callers only need this package.
type (
	Frame             = domain.Frame
	FrameType         = domain.FrameType
	Record            = domain.Record
	Message           = domain.Message
	FrameParsingError = domain.FrameParsingError
)

const (
	FrameTypeUnknown      = domain.FrameTypeUnknown
	FrameTypeIntermediate = domain.FrameTypeIntermediate
	FrameTypeEnd          = domain.FrameTypeEnd
	FrameTypeStart        = domain.FrameTypeStart

	DefaultMaxTextSize = domain.DefaultMaxTextSize
	RecordSeparator    = domain.RecordSeparator
)

var (
	ErrFrameParsing       = domain.ErrFrameParsing
	ErrInvalidMaxTextSize = domain.ErrInvalidMaxTextSize
	ErrIncompleteMessage  = domain.ErrIncompleteMessage
)

// NewRecord creates a record from its text.
func NewRecord(text string) Record { return domain.NewRecord(text) }

// NewMessage creates a message from records.
func NewMessage(records ...Record) Message { return domain.NewMessage(records...) }

// NewMessageFromText splits CR/LF separated text into records.
func NewMessageFromText(text string) Message { return domain.NewMessageFromText(text) }

// FixedTextSize is a Communicator with a constant maximum frame text size.
type FixedTextSize int

// MaxTextSize implements ports.Communicator.
func (s FixedTextSize) MaxTextSize() int { return int(s) }
