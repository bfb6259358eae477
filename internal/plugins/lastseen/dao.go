package lastseen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"molopl.dev/addons/internal/host"
	"molopl.dev/addons/internal/persistence/kvstore"
)

const (
	ConfigGroup = "lastSeen"
	KeyPrefix   = "lastSeen_"
)

// DAO stores the last time each player was seen online, in milliseconds since
// the epoch. Reads go through a cache. It is not safe for concurrent use.
type DAO struct {
	store  host.ConfigStore
	logger *zap.Logger
	cache  map[string]int64
}

func NewDAO(store host.ConfigStore, logger *zap.Logger) *DAO {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DAO{store: store, logger: logger, cache: map[string]int64{}}
}

func key(name string) string { return KeyPrefix + name }

// LastSeen returns the stored timestamp for name. Unreadable values count as
// absent.
func (d *DAO) LastSeen(name string) (int64, bool) {
	if ms, ok := d.cache[name]; ok {
		return ms, true
	}
	raw, ok, err := d.store.Get(ConfigGroup, key(name))
	if err != nil {
		d.logger.Warn("read last seen", zap.String("player", name), zap.Error(err))
		return 0, false
	}
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		d.logger.Info("invalid last seen value", zap.String("player", name), zap.String("value", raw))
		return 0, false
	}
	d.cache[name] = ms
	return ms, true
}

// SetLastSeen stores ms unless a later timestamp is already known.
func (d *DAO) SetLastSeen(name string, ms int64) error {
	if cur, ok := d.LastSeen(name); ok && cur >= ms {
		return nil
	}
	if err := d.store.Set(ConfigGroup, key(name), strconv.FormatInt(ms, 10)); err != nil {
		return fmt.Errorf("set last seen for %q: %w", name, err)
	}
	d.cache[name] = ms
	return nil
}

func (d *DAO) Delete(name string) error {
	delete(d.cache, name)
	if err := d.store.Unset(ConfigGroup, key(name)); err != nil {
		return fmt.Errorf("delete last seen for %q: %w", name, err)
	}
	return nil
}

// Migrate moves the timestamp of a renamed player to the new name.
func (d *DAO) Migrate(oldName, newName string) error {
	ms, ok := d.LastSeen(oldName)
	if !ok {
		return nil
	}
	if err := d.SetLastSeen(newName, ms); err != nil {
		return err
	}
	return d.Delete(oldName)
}

// Record is one stored entry as listed by List.
type Record struct {
	Name     string
	LastSeen int64
	// Valid is false when the stored value is not a timestamp.
	Valid bool
	Raw   string
}

// Lister enumerates stored entries.
type Lister interface {
	List(group, prefix string) ([]kvstore.Entry, error)
}

// List returns every stored record ordered by name.
func List(store Lister) ([]Record, error) {
	entries, err := store.List(ConfigGroup, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list last seen: %w", err)
	}
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		r := Record{Name: strings.TrimPrefix(e.Key, KeyPrefix), Raw: e.Value}
		if ms, err := strconv.ParseInt(e.Value, 10, 64); err == nil {
			r.LastSeen, r.Valid = ms, true
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
