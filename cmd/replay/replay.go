package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"molopl.dev/addons/internal/addons"
	"molopl.dev/addons/internal/config"
	"molopl.dev/addons/internal/host"
	"molopl.dev/addons/internal/persistence/journal"
	"molopl.dev/addons/internal/persistence/kvstore"
	"molopl.dev/addons/internal/plugins/fishbarrel"
	"molopl.dev/addons/internal/plugins/friendsviewer"
	"molopl.dev/addons/internal/plugins/lifesaving"
	"molopl.dev/addons/internal/protocol"
)

type options struct {
	journalDir string
	recordDir  string
	configPath string
	dbPath     string
	fromTick   uint64
	toTick     uint64
}

type summary struct {
	firstTick, lastTick uint64
	ticks               int
	events              int
	barrel              string
	contents            []fishbarrel.FishStack
	infoboxes           []lifesaving.Infobox
	panels              [][]string
	notifications       []string
}

var errStop = errors.New("stop")

func run(ctx context.Context, o options, logger *zap.Logger) (summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return summary{}, err
	}
	if o.journalDir == "" {
		o.journalDir = cfg.Journal.Dir
	}
	if o.journalDir == "" {
		return summary{}, fmt.Errorf("missing --journal (or journal.dir in config)")
	}
	if o.recordDir != "" && filepath.Clean(o.recordDir) == filepath.Clean(o.journalDir) {
		return summary{}, fmt.Errorf("--record must differ from the journal being replayed")
	}

	var store host.ConfigStore
	if o.dbPath != "" {
		db, err := kvstore.OpenSQLite(o.dbPath)
		if err != nil {
			return summary{}, err
		}
		defer db.Close()
		store = db
	} else {
		store = kvstore.NewMemory()
	}

	notes := &host.RecordingNotifier{Next: addons.NewNotifier(cfg.Notifications, logger)}
	rtOpts := host.Options{Logger: logger, SyncTicks: true}
	if o.recordDir != "" {
		rec := journal.NewTickRecorder(o.recordDir, cfg.Journal.Prefix)
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Warn("close recorded journal", zap.Error(err))
			}
		}()
		rtOpts.Recorder = rec
	}
	rt := host.NewRuntime(rtOpts)
	set := addons.Install(rt, cfg, addons.Deps{Store: store, Notifier: notes, Logger: logger})
	if err := rt.Start(ctx); err != nil {
		return summary{}, err
	}
	defer rt.Close()

	var (
		sum     summary
		started bool
	)
	err = journal.ReadDir(o.journalDir, cfg.Journal.Prefix, func(entry protocol.TickEntry) error {
		if entry.Tick < o.fromTick {
			return nil
		}
		if o.toTick != 0 && entry.Tick > o.toTick {
			return errStop
		}
		if !started {
			started = true
			sum.firstTick = entry.Tick
			rt.SeekTick(tickBefore(entry))
		}
		ticked := false
		for i, rec := range entry.Events {
			ev, err := protocol.Decode(rec)
			if err != nil {
				return fmt.Errorf("tick %d event %d: %w", entry.Tick, i, err)
			}
			if err := rt.Dispatch(ctx, ev); err != nil {
				return fmt.Errorf("tick %d: %w", entry.Tick, err)
			}
			if _, ok := ev.(protocol.GameTick); ok {
				ticked = true
			}
			sum.events++
		}
		if ticked {
			sum.ticks++
			if got := rt.Client().TickCount(); got != entry.Tick {
				return fmt.Errorf("tick mismatch: journal=%d replay=%d", entry.Tick, got)
			}
		}
		sum.lastTick = entry.Tick
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return summary{}, err
	}
	if err := rt.ClientThread().Flush(ctx); err != nil {
		return summary{}, err
	}

	sum.barrel = set.FishBarrel.Display()
	sum.contents = set.FishBarrel.Contents()
	sum.infoboxes = set.LifeSaving.Infoboxes()
	sum.notifications = notes.Messages()
	for _, l := range friendsviewer.Lists {
		if lines, ok := set.FriendsViewer.Panel(l); ok {
			sum.panels = append(sum.panels, lines)
		}
	}
	logger.Info("replay finished",
		zap.Uint64("first_tick", sum.firstTick),
		zap.Uint64("last_tick", sum.lastTick),
		zap.Int("events", sum.events))
	return sum, nil
}

// tickBefore is the tick counter value preceding entry. An entry that holds a
// GAME_TICK advanced the counter to entry.Tick.
func tickBefore(entry protocol.TickEntry) uint64 {
	for _, rec := range entry.Events {
		if rec.Type == protocol.TypeGameTick && entry.Tick > 0 {
			return entry.Tick - 1
		}
	}
	return entry.Tick
}

func (s summary) print(w io.Writer) {
	fmt.Fprintf(w, "replay ok: ticks=%d events=%d (ticks %d..%d)\n", s.ticks, s.events, s.firstTick, s.lastTick)
	fmt.Fprintf(w, "fish barrel: %s\n", s.barrel)
	for _, c := range s.contents {
		fmt.Fprintf(w, "  %d x %s\n", c.Count, c.Name)
	}
	for _, b := range s.infoboxes {
		fmt.Fprintf(w, "wearing: %s\n", b.Name)
	}
	for _, n := range s.notifications {
		fmt.Fprintf(w, "notification: %s\n", n)
	}
	for _, lines := range s.panels {
		fmt.Fprintf(w, "%s\n", lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
