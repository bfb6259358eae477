package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molopl.dev/addons/internal/protocol"
)

func entry(t *testing.T, tick uint64, events ...protocol.Event) protocol.TickEntry {
	t.Helper()
	e := protocol.TickEntry{Tick: tick}
	for _, ev := range events {
		rec, err := protocol.Encode(ev)
		require.NoError(t, err)
		e.Events = append(e.Events, rec)
	}
	return e
}

func TestTickRecorder_RoundTripAcrossHours(t *testing.T) {
	dir := t.TempDir()
	rec := NewTickRecorder(dir, "")
	clock := time.Date(2024, 5, 1, 10, 59, 0, 0, time.UTC)
	rec.now = func() time.Time { return clock }

	require.NoError(t, rec.WriteTick(entry(t, 1,
		protocol.ChatMessage{ChatType: protocol.ChatSpam, Message: "You catch a shark!"},
		protocol.GameTick{},
	)))
	require.NoError(t, rec.WriteTick(entry(t, 2, protocol.GameTick{})))
	clock = clock.Add(2 * time.Minute)
	require.NoError(t, rec.WriteTick(entry(t, 3, protocol.GameTick{})))
	require.NoError(t, rec.Close())

	files, err := ListFiles(dir, "events")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "events-2024-05-01-10.jsonl.zst", filepath.Base(files[0]))
	assert.Equal(t, "events-2024-05-01-11.jsonl.zst", filepath.Base(files[1]))

	var ticks []uint64
	var first protocol.TickEntry
	require.NoError(t, ReadDir(dir, "events", func(e protocol.TickEntry) error {
		if len(ticks) == 0 {
			first = e
		}
		ticks = append(ticks, e.Tick)
		return nil
	}))
	assert.Equal(t, []uint64{1, 2, 3}, ticks)
	require.Len(t, first.Events, 2)
	ev, err := protocol.Decode(first.Events[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.ChatMessage{ChatType: protocol.ChatSpam, Message: "You catch a shark!"}, ev)
}

func TestTickRecorder_RejectsOlderTick(t *testing.T) {
	dir := t.TempDir()
	rec := NewTickRecorder(dir, "events")
	require.NoError(t, rec.WriteTick(entry(t, 5, protocol.GameTick{})))
	require.NoError(t, rec.WriteTick(entry(t, 5, protocol.ChatMessage{ChatType: protocol.ChatSpam, Message: "late"})))
	err := rec.WriteTick(entry(t, 4, protocol.GameTick{}))
	assert.ErrorIs(t, err, ErrTickOrder)
	require.NoError(t, rec.Close())

	var ticks []uint64
	require.NoError(t, ReadDir(dir, "events", func(e protocol.TickEntry) error {
		ticks = append(ticks, e.Tick)
		return nil
	}))
	assert.Equal(t, []uint64{5, 5}, ticks)
}

func TestTickRecorder_RejectsInvalidEntry(t *testing.T) {
	dir := t.TempDir()
	rec := NewTickRecorder(dir, "events")
	bad := protocol.TickEntry{Tick: 1, Events: []protocol.RecordedEvent{{Type: "HELLO"}}}
	err := rec.WriteTick(bad)
	assert.ErrorIs(t, err, protocol.ErrInvalidEntry)
	require.NoError(t, rec.Close())

	files, err := ListFiles(dir, "events")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestTickRecorder_CloseWithoutWrites(t *testing.T) {
	rec := NewTickRecorder(filepath.Join(t.TempDir(), "never"), "events")
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())
}

func TestReadDir_Empty(t *testing.T) {
	err := ReadDir(t.TempDir(), "events", func(protocol.TickEntry) error { return nil })
	require.Error(t, err)
}

func TestReadFile_StopsOnCallbackError(t *testing.T) {
	dir := t.TempDir()
	rec := NewTickRecorder(dir, "events")
	require.NoError(t, rec.WriteTick(entry(t, 1, protocol.GameTick{})))
	require.NoError(t, rec.WriteTick(entry(t, 2, protocol.GameTick{})))
	require.NoError(t, rec.Close())

	stop := errors.New("stop")
	calls := 0
	err := ReadDir(dir, "events", func(protocol.TickEntry) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestReadFile_RejectsInvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events-2024-01-01-00.jsonl.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte("{\"tick\":1,\"events\":[]}\n{\"events\":[]}\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	var ticks []uint64
	err = ReadFile(path, func(e protocol.TickEntry) error {
		ticks = append(ticks, e.Tick)
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrInvalidEntry)
	assert.Contains(t, err.Error(), ":2:")
	assert.Equal(t, []uint64{1}, ticks)
}

func TestListFiles_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"events-a.jsonl.zst", "audit-a.jsonl.zst", "events-b.jsonl", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "events-dir.jsonl.zst"), 0o755))
	files, err := ListFiles(dir, "events")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "events-a.jsonl.zst", filepath.Base(files[0]))
}
