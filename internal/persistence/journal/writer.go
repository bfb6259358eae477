package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"molopl.dev/addons/internal/protocol"
)

// ErrTickOrder is returned when an entry is older than the last one written.
var ErrTickOrder = errors.New("journal: tick out of order")

// TickRecorder appends one JSON line per game tick to zstd files named
// <prefix>-YYYY-MM-DD-HH.jsonl.zst, starting a new file every UTC hour.
// Every line is checked against the tick entry schema before it is written.
type TickRecorder struct {
	dir    string
	prefix string
	now    func() time.Time

	mu       sync.Mutex
	hour     string
	file     *os.File
	enc      *zstd.Encoder
	lastTick uint64
	written  bool
}

func NewTickRecorder(dir, prefix string) *TickRecorder {
	if prefix == "" {
		prefix = "events"
	}
	return &TickRecorder{dir: dir, prefix: prefix, now: time.Now}
}

// WriteTick appends entry. The unfinished tick flushed on shutdown repeats the
// last tick number, so equal ticks are accepted.
func (r *TickRecorder) WriteTick(entry protocol.TickEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := protocol.ValidateEntry(line); err != nil {
		return fmt.Errorf("tick %d: %w", entry.Tick, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.written && entry.Tick < r.lastTick {
		return fmt.Errorf("%w: %d after %d", ErrTickOrder, entry.Tick, r.lastTick)
	}
	if hour := r.now().UTC().Format("2006-01-02-15"); hour != r.hour {
		if err := r.openLocked(hour); err != nil {
			return err
		}
	}
	if _, err := r.enc.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", r.file.Name(), err)
	}
	r.lastTick, r.written = entry.Tick, true
	return nil
}

func (r *TickRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *TickRecorder) openLocked(hour string) error {
	if err := r.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(r.dir, fmt.Sprintf("%s-%s.jsonl.zst", r.prefix, hour))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	r.file, r.enc, r.hour = f, enc, hour
	return nil
}

func (r *TickRecorder) closeLocked() error {
	if r.file == nil {
		return nil
	}
	err := r.enc.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file, r.enc, r.hour = nil, nil, ""
	return err
}
