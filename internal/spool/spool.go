// Package spool replays captured ASTM traffic dropped into a directory.
//
// Frame dumps (*.frames.jsonl) are reassembled into records and message
// text files (*.astm, *.txt) are chunked into frames. Results are written to
// the output directory as JSON lines. Progress is kept in a state file so a
// restart does not process the same file twice.
package spool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/itech-ahb/astmframe/internal/adapters/fs"
	"github.com/itech-ahb/astmframe/internal/domain"
	"github.com/itech-ahb/astmframe/internal/ports"
	"github.com/itech-ahb/astmframe/pkg/framefile"
	"github.com/itech-ahb/astmframe/pkg/interpret"
	"github.com/itech-ahb/astmframe/pkg/log"
)

// Spool file suffixes.
const (
	FramesSuffix  = ".frames.jsonl"
	RecordsSuffix = ".records.jsonl"
)

var textSuffixes = []string{".astm", ".txt"}

// Config holds configuration for the spool watcher.
type Config struct {
	// Dir is the directory watched for input files.
	Dir string

	// OutDir receives the results. It must differ from Dir.
	OutDir string

	// DebounceDelay is the quiet period after the last write to a file
	// before it is processed.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// Strict fails frame dumps that end without a message terminator.
	Strict bool

	// Once processes the files already present and returns.
	Once bool
}

// Watcher processes spool files as they appear.
type Watcher struct {
	cfg     Config
	factory interpret.Factory
	repo    ports.StateRepository
	logger  log.Logger

	// mu serializes processing and guards state.
	mu    sync.Mutex
	state ports.SpoolState

	timersMu sync.Mutex
	timers   map[string]*time.Timer
	wg       sync.WaitGroup
}

// New creates a Watcher. A nil logger discards output.
func New(cfg Config, factory interpret.Factory, repo ports.StateRepository, logger log.Logger) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: spool dir is required", domain.ErrInvalidConfig)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = filepath.Join(cfg.Dir, "out")
	}
	if sameDir(cfg.Dir, cfg.OutDir) {
		return nil, fmt.Errorf("%w: out dir must differ from spool dir", domain.ErrInvalidConfig)
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		cfg:     cfg,
		factory: factory,
		repo:    repo,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
	}, nil
}

// Run processes pending files and, unless Once is set, watches for new ones
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	state, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load spool state: %w", err)
	}
	w.mu.Lock()
	w.state = state
	w.mu.Unlock()

	if err := os.MkdirAll(w.cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	if w.cfg.Once {
		return w.scan(ctx)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch before scanning so files created during the scan are not missed.
	if err := watcher.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	if err := w.scan(ctx); err != nil {
		return err
	}

	w.logger.Info("spool watcher started", log.String("dir", w.cfg.Dir))
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("spool watcher stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if classify(name) == kindIgnored {
				continue
			}
			w.debounce(ctx, name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("spool watcher error", log.Err(err))
		}
	}
}

// scan processes every eligible file present in the spool directory.
func (w *Watcher) scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("read spool dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && classify(e.Name()) != kindIgnored {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if ctx.Err() != nil {
			return nil
		}
		if err := w.Process(ctx, name); err != nil {
			w.logger.Error("spool file failed", log.String("file", name), log.Err(err))
		}
	}
	return nil
}

func (w *Watcher) debounce(ctx context.Context, name string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if t, ok := w.timers[name]; ok {
		if t.Stop() {
			w.wg.Done()
		}
	}
	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.cfg.DebounceDelay, func() {
		defer w.wg.Done()
		w.timersMu.Lock()
		if w.timers[name] == t {
			delete(w.timers, name)
		}
		w.timersMu.Unlock()

		if err := w.Process(ctx, name); err != nil {
			w.logger.Error("spool file failed", log.String("file", name), log.Err(err))
		}
	})
	w.timers[name] = t
}

// stopTimers cancels pending debounces and waits for running ones.
func (w *Watcher) stopTimers() {
	w.timersMu.Lock()
	for name, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, name)
	}
	w.timersMu.Unlock()
	w.wg.Wait()
}

// Process handles one spool file by name. Files already processed at their
// current size are skipped, and nothing is done once ctx is cancelled. A file that fails is still recorded so it is
// not retried until it changes.
func (w *Watcher) Process(ctx context.Context, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Unrecorded files are picked up again by the next run's scan.
	if ctx.Err() != nil {
		return nil
	}

	path := filepath.Join(w.cfg.Dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if size, ok := w.state.Processed[name]; ok && size == info.Size() {
		w.logger.Debug("spool file already processed", log.String("file", name))
		return nil
	}

	var procErr error
	switch classify(name) {
	case kindFrames:
		procErr = w.reassembleFile(path, name)
	case kindText:
		procErr = w.chunkFile(path, name)
	default:
		return nil
	}

	if w.state.Processed == nil {
		w.state.Processed = map[string]int64{}
	}
	w.state.Processed[name] = info.Size()
	// Output is already on disk; record it even if ctx was cancelled meanwhile.
	if err := w.repo.Save(context.WithoutCancel(ctx), w.state); err != nil {
		return fmt.Errorf("save spool state: %w", err)
	}
	return procErr
}

func (w *Watcher) reassembleFile(path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	frames, err := framefile.ReadAll(framefile.NewDecoder(f))
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	msg, err := w.factory.ForFrames(frames).FramesToMessage(frames)
	if err != nil {
		return fmt.Errorf("reassemble %s: %w", name, err)
	}
	if !msg.Complete() {
		if w.cfg.Strict {
			return fmt.Errorf("reassemble %s: %w", name, domain.ErrIncompleteMessage)
		}
		w.logger.Warn("frame dump has no message terminator", log.String("file", name), log.Int("frames", len(frames)))
	}

	var buf bytes.Buffer
	if err := framefile.WriteRecords(&buf, msg); err != nil {
		return err
	}
	out := filepath.Join(w.cfg.OutDir, strings.TrimSuffix(name, FramesSuffix)+RecordsSuffix)
	if err := fs.WriteFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	w.logger.Info("reassembled frame dump",
		log.String("file", name), log.Int("frames", len(frames)), log.Int("records", msg.Len()))
	return nil
}

func (w *Watcher) chunkFile(path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(data)

	in := w.factory.ForText(text)
	frames, err := in.MessageToFrames(in.TextToMessage(text))
	if err != nil {
		return fmt.Errorf("chunk %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := framefile.WriteAll(framefile.NewEncoder(&buf), frames); err != nil {
		return err
	}
	// The input extension stays in the name so a.astm and a.txt do not collide.
	out := filepath.Join(w.cfg.OutDir, name+FramesSuffix)
	if err := fs.WriteFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	w.logger.Info("chunked message", log.String("file", name), log.Int("frames", len(frames)))
	return nil
}

type fileKind int

const (
	kindIgnored fileKind = iota
	kindFrames
	kindText
)

func classify(name string) fileKind {
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
		return kindIgnored
	}
	if strings.HasSuffix(name, FramesSuffix) {
		return kindFrames
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range textSuffixes {
		if ext == s {
			return kindText
		}
	}
	return kindIgnored
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
