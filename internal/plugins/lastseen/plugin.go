package lastseen

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"molopl.dev/addons/internal/config"
	"molopl.dev/addons/internal/host"
	"molopl.dev/addons/internal/protocol"
)

const Name = "last-seen"

// Client is the part of the host client the plugin reads. Friends is only
// called on the logic thread.
type Client interface {
	GameState() protocol.GameState
	TickCount() uint64
	Friends() ([]protocol.Friend, bool)
}

type Scheduler interface {
	InvokeLater(fn func())
}

// Plugin remembers when friends were last online and shows it when hovering a
// friend in the friends list.
type Plugin struct {
	logger       *zap.Logger
	dao          *DAO
	client       Client
	scheduler    Scheduler
	now          func() time.Time
	persistEvery uint64

	// Written on the logic thread, drained on the event thread.
	mu      sync.Mutex
	session map[string]int64

	lastPersistedTick uint64
	hover             string
}

func New(cfg config.LastSeen, dao *DAO, client Client, scheduler Scheduler, logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	every := cfg.PersistEveryTicks
	if every <= 0 {
		every = config.Defaults().LastSeen.PersistEveryTicks
	}
	return &Plugin{
		logger:       logger,
		dao:          dao,
		client:       client,
		scheduler:    scheduler,
		now:          time.Now,
		persistEvery: uint64(every),
		session:      map[string]int64{},
	}
}

func (p *Plugin) Name() string { return Name }

// HoverText is the tooltip for the hovered friend, empty when none.
func (p *Plugin) HoverText() string { return p.hover }

func (p *Plugin) Subscribe(bus *host.Bus) {
	host.On(bus, p.onGameStateChanged)
	host.On(bus, p.onGameTick)
	host.On(bus, p.onFriendRenamed)
	host.On(bus, p.onFriendRemoved)
	host.On(bus, p.onMenuEntryAdded)
}

func (p *Plugin) StartUp() error { return nil }

func (p *Plugin) ShutDown() {
	p.persist()
}

func (p *Plugin) onGameStateChanged(protocol.GameStateChanged) {
	p.persist()
}

func (p *Plugin) onGameTick(protocol.GameTick) {
	if p.client.GameState() != protocol.GameStateLoggedIn {
		return
	}
	if p.client.TickCount() >= p.lastPersistedTick+p.persistEvery {
		p.persist()
	}
	p.scheduler.InvokeLater(p.stampOnlineFriends)
}

func (p *Plugin) stampOnlineFriends() {
	friends, ok := p.client.Friends()
	if !ok {
		return
	}
	now := p.now().UnixMilli()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range friends {
		if f.World > 0 {
			p.session[host.ToJagexName(f.Name)] = now
		}
	}
}

func (p *Plugin) onFriendRenamed(e protocol.FriendRenamed) {
	if e.PrevName == "" {
		return
	}
	oldName, newName := host.ToJagexName(e.PrevName), host.ToJagexName(e.Name)
	p.mu.Lock()
	if ms, ok := p.session[oldName]; ok {
		delete(p.session, oldName)
		p.session[newName] = max(ms, p.session[newName])
	}
	p.mu.Unlock()
	if err := p.dao.Migrate(oldName, newName); err != nil {
		p.logger.Warn("migrate last seen", zap.String("from", oldName), zap.String("to", newName), zap.Error(err))
	}
}

func (p *Plugin) onFriendRemoved(e protocol.FriendRemoved) {
	name := host.ToJagexName(e.Name)
	p.mu.Lock()
	delete(p.session, name)
	p.mu.Unlock()
	if err := p.dao.Delete(name); err != nil {
		p.logger.Warn("delete last seen", zap.String("player", name), zap.Error(err))
	}
}

func (p *Plugin) onMenuEntryAdded(e protocol.MenuEntryAdded) {
	if e.WidgetGroup != protocol.WidgetGroupFriendsList || e.Option != "Message" {
		p.hover = ""
		return
	}
	p.setHover(host.ToJagexName(host.RemoveTags(e.Target)))
}

func (p *Plugin) setHover(name string) {
	p.hover = ""
	if name == "" {
		return
	}
	p.mu.Lock()
	ms, ok := p.session[name]
	p.mu.Unlock()
	if !ok {
		ms, ok = p.dao.LastSeen(name)
	}
	p.hover = "Last online: " + Format(ms, ok, p.now())
}

func (p *Plugin) persist() {
	p.lastPersistedTick = p.client.TickCount()
	p.mu.Lock()
	pending := p.session
	p.session = map[string]int64{}
	p.mu.Unlock()
	for name, ms := range pending {
		if err := p.dao.SetLastSeen(name, ms); err != nil {
			p.logger.Warn("persist last seen", zap.String("player", name), zap.Error(err))
		}
	}
	if len(pending) > 0 {
		p.logger.Debug("last seen persisted", zap.Int("players", len(pending)))
	}
}
