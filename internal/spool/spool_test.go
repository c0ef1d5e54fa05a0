package spool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/itech-ahb/astmframe/internal/adapters/fs"
	"github.com/itech-ahb/astmframe/internal/domain"
	"github.com/itech-ahb/astmframe/internal/ports"
	"github.com/itech-ahb/astmframe/pkg/interpret"
)

const frameDump = `{"n":1,"type":"INTERMEDIATE","text":"H|\\^&|||analyzer\r"}
{"n":2,"type":"END","text":"L|1|N\r"}
`

// memRepo is an in-memory ports.StateRepository.
type memRepo struct {
	mu    sync.Mutex
	state ports.SpoolState
	saves int
}

func (m *memRepo) Load(ctx context.Context) (ports.SpoolState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := ports.SpoolState{Processed: map[string]int64{}}
	for k, v := range m.state.Processed {
		out.Processed[k] = v
	}
	return out, nil
}

func (m *memRepo) Save(ctx context.Context, s ports.SpoolState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ports.SpoolState{Processed: map[string]int64{}}
	for k, v := range s.Processed {
		m.state.Processed[k] = v
	}
	m.saves++
	return nil
}

func newTestWatcher(t *testing.T, cfg Config, repo ports.StateRepository) *Watcher {
	t.Helper()
	factory, err := interpret.NewFactory(interpret.WithMaxTextSize(8))
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	w, err := New(cfg, factory, repo, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNew_Validation(t *testing.T) {
	factory, _ := interpret.NewFactory()
	repo := &memRepo{}

	if _, err := New(Config{}, factory, repo, nil); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("New() without dir error = %v, want ErrInvalidConfig", err)
	}

	dir := t.TempDir()
	if _, err := New(Config{Dir: dir, OutDir: dir + "/"}, factory, repo, nil); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("New() with out dir == spool dir error = %v, want ErrInvalidConfig", err)
	}

	w, err := New(Config{Dir: dir}, factory, repo, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if w.cfg.OutDir != filepath.Join(dir, "out") {
		t.Errorf("OutDir = %q, want default under spool dir", w.cfg.OutDir)
	}
}

func TestWatcher_OnceProcessesBothKinds(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "run-1.frames.jsonl"), frameDump)
	writeFile(t, filepath.Join(dir, "order.astm"), "H|\\^&\nR|1|^^^NA\nL|1|N\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")

	repo := &memRepo{}
	w := newTestWatcher(t, Config{Dir: dir, OutDir: out, Once: true}, repo)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records, err := os.ReadFile(filepath.Join(out, "run-1.records.jsonl"))
	if err != nil {
		t.Fatalf("read records output: %v", err)
	}
	if want := `{"index":0,"text":"H|\\^&|||analyzer\rL|1|N\r"}` + "\n"; string(records) != want {
		t.Errorf("records output = %q, want %q", records, want)
	}

	frames, err := os.ReadFile(filepath.Join(out, "order.astm.frames.jsonl"))
	if err != nil {
		t.Fatalf("read frames output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(frames)), "\n")
	// "H|\^&\r" (6), "R|1|^^^NA\r" (8 + 2), "L|1|N\r" (6) at max 8.
	if len(lines) != 4 {
		t.Fatalf("got %d frame lines, want 4:\n%s", len(lines), frames)
	}
	if !strings.HasPrefix(lines[3], `{"n":4,"type":"END","text":"L|1|N\r"}`) {
		t.Errorf("last frame line = %s", lines[3])
	}

	if len(repo.state.Processed) != 2 {
		t.Errorf("processed = %v, want 2 entries", repo.state.Processed)
	}
	if _, err := os.Stat(filepath.Join(out, "notes.records.jsonl")); !os.IsNotExist(err) {
		t.Error("ignored file should not produce output")
	}
}

func TestWatcher_SameStemTextFilesKeepSeparateOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "a.astm"), "H|first\nL|1|N\n")
	writeFile(t, filepath.Join(dir, "a.txt"), "H|second\nL|1|N\n")

	w := newTestWatcher(t, Config{Dir: dir, OutDir: out, Once: true}, &memRepo{})
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for name, want := range map[string]string{
		"a.astm.frames.jsonl": "first",
		"a.txt.frames.jsonl":  "second",
	} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s = %s, want frames of %q", name, data, want)
		}
	}
}

func TestWatcher_ProcessSkipsAfterCancel(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "order.astm"), "H|1\nL|1|N\n")

	repo := &memRepo{}
	w := newTestWatcher(t, Config{Dir: dir, OutDir: out}, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Process(ctx, "order.astm"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if repo.saves != 0 {
		t.Errorf("saves = %d, want 0", repo.saves)
	}
	if _, err := os.Stat(filepath.Join(out, "order.astm.frames.jsonl")); !os.IsNotExist(err) {
		t.Errorf("no output expected after cancel, stat err = %v", err)
	}
}

// cancellingFactory cancels its context when an interpreter is selected,
// simulating shutdown while a file is being processed.
type cancellingFactory struct {
	interpret.Factory
	cancel context.CancelFunc
}

func (f cancellingFactory) ForText(text string) ports.Interpreter {
	f.cancel()
	return f.Factory.ForText(text)
}

// ctxRepo is a memRepo that refuses saves on a done context, like the
// state file repository.
type ctxRepo struct {
	memRepo
}

func (r *ctxRepo) Save(ctx context.Context, s ports.SpoolState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.memRepo.Save(ctx, s)
}

func TestWatcher_RecordsOutputWrittenDuringShutdown(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "order.astm"), "H|1\nL|1|N\n")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}

	base, err := interpret.NewFactory()
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &ctxRepo{}
	w, err := New(Config{Dir: dir, OutDir: out}, cancellingFactory{Factory: base, cancel: cancel}, repo, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Process(ctx, "order.astm"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "order.astm.frames.jsonl")); err != nil {
		t.Fatalf("expected output: %v", err)
	}
	if _, ok := repo.state.Processed["order.astm"]; !ok {
		t.Errorf("processed = %v, want order.astm recorded", repo.state.Processed)
	}
}

func TestWatcher_SkipsProcessedFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	path := filepath.Join(dir, "run-1.frames.jsonl")
	writeFile(t, path, frameDump)

	repo := &memRepo{}
	w := newTestWatcher(t, Config{Dir: dir, OutDir: out, Once: true}, repo)
	ctx := context.Background()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("saves = %d, want 1", repo.saves)
	}

	if err := w.Run(ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if repo.saves != 1 {
		t.Errorf("unchanged file was processed again (saves = %d)", repo.saves)
	}

	// A file that grows is processed again.
	writeFile(t, path, frameDump+`{"n":3,"type":"END","text":"L|1|N\r"}`+"\n")
	if err := w.Run(ctx); err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	if repo.saves != 2 {
		t.Errorf("changed file was not reprocessed (saves = %d)", repo.saves)
	}
}

func TestWatcher_ProcessErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		strict  bool
		wantErr error
	}{
		{
			name:    "unknown frame type",
			content: `{"n":1,"type":"CHECKSUM","text":"L|1|N\r"}` + "\n",
			wantErr: domain.ErrFrameParsing,
		},
		{
			name:    "incomplete in strict mode",
			content: `{"n":1,"type":"END","text":"H|\\^&\r"}` + "\n",
			strict:  true,
			wantErr: domain.ErrIncompleteMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "bad.frames.jsonl"), tt.content)

			repo := &memRepo{}
			w := newTestWatcher(t, Config{Dir: dir, OutDir: filepath.Join(t.TempDir(), "out"), Strict: tt.strict, Once: true}, repo)
			w.state = ports.SpoolState{Processed: map[string]int64{}}

			err := w.Process(context.Background(), "bad.frames.jsonl")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Process() error = %v, want %v", err, tt.wantErr)
			}
			if _, ok := repo.state.Processed["bad.frames.jsonl"]; !ok {
				t.Error("failed file should still be recorded as processed")
			}
		})
	}
}

func TestWatcher_IncompleteNonStrictWritesEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "partial.frames.jsonl"), `{"n":1,"type":"END","text":"H|\\^&\r"}`+"\n")

	w := newTestWatcher(t, Config{Dir: dir, OutDir: out, Once: true}, &memRepo{})
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "partial.records.jsonl"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("output = %q, want no records", data)
	}
}

func TestWatcher_WatchesNewFiles(t *testing.T) {
	dir := t.TempDir()
	stateDir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	w := newTestWatcher(t, Config{Dir: dir, OutDir: out, DebounceDelay: 20 * time.Millisecond},
		fs.NewStateFileRepository(stateDir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before dropping the file.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "live.frames.jsonl"), frameDump)

	repo := fs.NewStateFileRepository(stateDir)
	deadline := time.Now().Add(5 * time.Second)
	for {
		state, err := repo.Load(context.Background())
		if err == nil {
			if _, ok := state.Processed["live.frames.jsonl"]; ok {
				break
			}
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("timed out waiting for live.frames.jsonl to be processed")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if _, err := os.Stat(filepath.Join(out, "live.records.jsonl")); err != nil {
		t.Errorf("expected records output: %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want fileKind
	}{
		{"a.frames.jsonl", kindFrames},
		{"a.astm", kindText},
		{"A.TXT", kindText},
		{"a.jsonl", kindIgnored},
		{".hidden.astm", kindIgnored},
		{"a.astm.tmp", kindIgnored},
		{"spool-state.json", kindIgnored},
	}
	for _, tt := range tests {
		if got := classify(tt.name); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
