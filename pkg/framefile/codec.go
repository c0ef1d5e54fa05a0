package framefile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/itech-ahb/astmframe/internal/domain"
	"github.com/itech-ahb/astmframe/internal/ports"
)

// maxLineBytes bounds a single dump line; frames are small but captured
// dumps may carry oversized garbage.
const maxLineBytes = 1 << 20

// frameLine is the JSON shape of one dump line.
type frameLine struct {
	N    int              `json:"n"`
	Type domain.FrameType `json:"type"`
	Text string           `json:"text"`
}

// Encoder writes frames as JSON lines.
type Encoder struct {
	enc *json.Encoder
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Encoder{enc: enc}
}

// WriteFrame writes one frame.
func (e *Encoder) WriteFrame(f domain.Frame) error {
	return e.enc.Encode(frameLine{N: f.FrameNumber, Type: f.Type, Text: f.Text})
}

// Decoder reads frames from JSON lines. Blank lines are skipped.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Decoder{scanner: s}
}

// Next returns the next frame, or io.EOF at the end of input.
// Unrecognized type names decode to domain.FrameTypeUnknown so that the
// reassembler reports them.
func (d *Decoder) Next() (domain.Frame, error) {
	for d.scanner.Scan() {
		d.line++
		b := d.scanner.Bytes()
		if len(bytes.TrimSpace(b)) == 0 {
			continue
		}
		var fl frameLine
		if err := json.Unmarshal(b, &fl); err != nil {
			return domain.Frame{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		return domain.Frame{Text: fl.Text, Type: fl.Type, FrameNumber: fl.N}, nil
	}
	if err := d.scanner.Err(); err != nil {
		return domain.Frame{}, fmt.Errorf("line %d: %w", d.line+1, err)
	}
	return domain.Frame{}, io.EOF
}

// ReadAll drains a FrameReader.
func ReadAll(r ports.FrameReader) ([]domain.Frame, error) {
	var frames []domain.Frame
	for {
		f, err := r.Next()
		if err == ports.ErrNoMoreFrames {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}

// WriteAll writes frames to w in order.
func WriteAll(w ports.FrameWriter, frames []domain.Frame) error {
	for i, f := range frames {
		if err := w.WriteFrame(f); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// TextWriter renders frames for people: number, type and quoted text.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a TextWriter writing to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteFrame writes one frame on its own line.
func (t *TextWriter) WriteFrame(f domain.Frame) error {
	_, err := fmt.Fprintf(t.w, "%d %s %s\n", f.FrameNumber, f.Type, strconv.Quote(f.Text))
	return err
}

var (
	_ ports.FrameReader = (*Decoder)(nil)
	_ ports.FrameWriter = (*Encoder)(nil)
	_ ports.FrameWriter = (*TextWriter)(nil)
)
