package interpret

import "github.com/itech-ahb/astmframe/internal/ports"

// Factory selects an interpreter for the data at hand. Every entry point
// currently resolves to the same implementation; the seam exists so that
// instrument dialects can be substituted without changing callers.
type Factory interface {
	ForFrames(frames []Frame) ports.Interpreter
	ForRecords(records []Record) ports.Interpreter
	ForMessage(message Message) ports.Interpreter
	ForText(text string) ports.Interpreter
}

// DefaultFactory always returns one shared Interpreter.
type DefaultFactory struct {
	interpreter *Interpreter
}

// NewFactory builds the shared Interpreter from opts.
func NewFactory(opts ...Option) (*DefaultFactory, error) {
	in, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return &DefaultFactory{interpreter: in}, nil
}

// ForFrames returns the interpreter for received frames.
func (f *DefaultFactory) ForFrames([]Frame) ports.Interpreter { return f.interpreter }

// ForRecords returns the interpreter for outbound records.
func (f *DefaultFactory) ForRecords([]Record) ports.Interpreter { return f.interpreter }

// ForMessage returns the interpreter for an outbound message.
func (f *DefaultFactory) ForMessage(Message) ports.Interpreter { return f.interpreter }

// ForText returns the interpreter for raw message text.
func (f *DefaultFactory) ForText(string) ports.Interpreter { return f.interpreter }

var _ Factory = (*DefaultFactory)(nil)
