package interpret

import (
	"github.com/itech-ahb/astmframe/internal/domain"
	"github.com/itech-ahb/astmframe/internal/ports"
	"github.com/itech-ahb/astmframe/pkg/log"
)

// Interpreter is the default ports.Interpreter. It wraps the package-level
// chunker and reassembler with logging and metrics and is safe for
// concurrent use.
type Interpreter struct {
	maxTextSize int
	logger      log.Logger
	observer    Observer
}

// Option configures an Interpreter.
type Option func(*options)

type options struct {
	communicator ports.Communicator
	logger       log.Logger
	observer     Observer
}

// WithCommunicator takes the maximum frame text size from the transport.
// Defaults to DefaultMaxTextSize.
func WithCommunicator(c ports.Communicator) Option {
	return func(o *options) {
		o.communicator = c
	}
}

// WithMaxTextSize is shorthand for WithCommunicator(FixedTextSize(n)).
func WithMaxTextSize(n int) Option {
	return WithCommunicator(FixedTextSize(n))
}

// WithLogger sets the logger. If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets the metrics observer.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// New creates an Interpreter. It fails with ErrInvalidMaxTextSize if the
// communicator reports a non-positive size.
func New(opts ...Option) (*Interpreter, error) {
	o := options{
		communicator: FixedTextSize(DefaultMaxTextSize),
		logger:       log.NewNoopLogger(),
		observer:     noopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	size := o.communicator.MaxTextSize()
	if size <= 0 {
		return nil, domain.InvalidMaxTextSize(size)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.observer == nil {
		o.observer = noopObserver{}
	}

	return &Interpreter{
		maxTextSize: size,
		logger:      o.logger,
		observer:    o.observer,
	}, nil
}

// MaxTextSize returns the frame text limit used for chunking.
func (in *Interpreter) MaxTextSize() int {
	return in.maxTextSize
}

// FramesToMessage reassembles frames into a message.
func (in *Interpreter) FramesToMessage(frames []Frame) (Message, error) {
	in.logger.Debug("interpreting frames as astm message", log.Int("frames", len(frames)))

	msg, err := reassemble(frames, in.logger)
	if err != nil {
		in.observer.ReassemblyFailed()
		in.logger.Warn("frames could not be reassembled", log.Err(err))
		return Message{}, err
	}

	in.observer.RecordsReassembled(msg.Len())
	if !msg.Complete() {
		in.observer.IncompleteMessage()
	}
	in.logger.Debug("finished interpreting frames as astm message", log.Int("records", msg.Len()))
	return msg, nil
}

// MessageToFrames chunks a message into numbered frames.
func (in *Interpreter) MessageToFrames(message Message) ([]Frame, error) {
	in.logger.Debug("interpreting astm message as frames", log.Int("records", message.Len()))

	frames, err := ChunkMessage(message, in.maxTextSize)
	if err != nil {
		return nil, err
	}
	for _, f := range frames {
		in.logger.Trace("frame", log.Stringer("frame", f))
	}

	in.observer.FramesChunked(len(frames))
	in.logger.Debug("finished interpreting astm message as frames", log.Int("frames", len(frames)))
	return frames, nil
}

// RecordsToMessage builds a message from records.
func (in *Interpreter) RecordsToMessage(records []Record) Message {
	return NewMessage(records...)
}

// TextToRecord builds a record from text as-is.
func (in *Interpreter) TextToRecord(text string) Record {
	return NewRecord(text)
}

// TextToMessage splits line-separated text into records.
func (in *Interpreter) TextToMessage(text string) Message {
	return NewMessageFromText(text)
}

var _ ports.Interpreter = (*Interpreter)(nil)
