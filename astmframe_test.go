package astmframe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/itech-ahb/astmframe"
)

func TestChunkReassembleRoundTrip(t *testing.T) {
	msg := astmframe.NewMessageFromText("H|\\^&|||analyzer\nP|1||PID-7\nO|1|S-1||^^^GLU\nL|1|N\n")

	frames, err := astmframe.Chunk(msg, 7)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	last := frames[len(frames)-1]
	if !astmframe.IsMessageTerminator(last) || last.Type != astmframe.FrameTypeEnd {
		t.Fatalf("last frame %v should be a terminating END frame", last)
	}

	back, err := astmframe.Reassemble(frames)
	if err != nil {
		t.Fatalf("Reassemble: %v", err)
	}
	if back.Len() != 1 || back.Record(0).Text() != msg.Text() {
		t.Fatalf("reassembled %q, want one record %q", back.Text(), msg.Text())
	}
}

func TestChunkInvalidSize(t *testing.T) {
	_, err := astmframe.Chunk(astmframe.NewMessageFromText("L|1\n"), 0)
	if !errors.Is(err, astmframe.ErrInvalidMaxTextSize) {
		t.Fatalf("err = %v, want ErrInvalidMaxTextSize", err)
	}
}

func TestReassembleUnknownType(t *testing.T) {
	_, err := astmframe.Reassemble([]astmframe.Frame{{Text: "L|1\r"}})
	var fpe *astmframe.FrameParsingError
	if !errors.As(err, &fpe) || fpe.Index != 0 {
		t.Fatalf("err = %v, want FrameParsingError at index 0", err)
	}
}

func TestWatchSpoolOnce(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "order.astm"), []byte("H|1\nL|1|N\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := astmframe.SpoolConfig{Dir: dir, Once: true}
	if err := astmframe.WatchSpool(context.Background(), cfg, astmframe.DefaultMaxTextSize, zerolog.Nop()); err != nil {
		t.Fatalf("WatchSpool: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "order.astm.frames.jsonl")); err != nil {
		t.Fatalf("expected frames output: %v", err)
	}
}
