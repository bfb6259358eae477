// Package friendsviewer keeps sorted lists of the players who are online in the
// friends list and the chat channels the player belongs to.
package friendsviewer

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"molopl.dev/addons/internal/config"
	"molopl.dev/addons/internal/host"
	"molopl.dev/addons/internal/protocol"
)

const (
	Name        = "friends-viewer"
	ConfigGroup = "friendListViewer"
)

// List identifies one of the viewer's panels. The value is the panel title.
type List string

const (
	ListFriends     List = "Friends"
	ListChatChannel List = "Chat-channel"
	ListYourClan    List = "Your Clan"
	ListGuestClan   List = "Guest Clan"
)

// Lists in panel order.
var Lists = []List{ListFriends, ListChatChannel, ListYourClan, ListGuestClan}

var channels = map[List]protocol.Channel{
	ListChatChannel: protocol.ChannelFriendsChat,
	ListYourClan:    protocol.ChannelClan,
	ListGuestClan:   protocol.ChannelGuestClan,
}

var toggleKeys = map[string]List{
	"showFriends":     ListFriends,
	"showChatChannel": ListChatChannel,
	"showYourClan":    ListYourClan,
	"showGuestClan":   ListGuestClan,
}

type Entry struct {
	Name  string
	World int
	Rank  int
	// SameWorld is set for players on the local player's world.
	SameWorld bool
}

// Client is the part of the host client the plugin reads. Everything but
// GameState and TickCount is only called on the logic thread.
type Client interface {
	GameState() protocol.GameState
	TickCount() uint64
	Friends() ([]protocol.Friend, bool)
	ChatChannel(ch protocol.Channel) ([]protocol.ChannelMember, bool)
	LocalPlayer() (name string, world int, ok bool)
}

type Scheduler interface {
	InvokeLater(fn func())
}

type Plugin struct {
	logger      *zap.Logger
	client      Client
	scheduler   Scheduler
	updateEvery uint64

	// Event thread only.
	enabled map[List]bool

	mu         sync.Mutex
	maxPlayers int
	entries    map[List][]Entry
}

func New(cfg config.FriendsViewer, client Client, scheduler Scheduler, logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := config.Defaults().FriendsViewer
	if cfg.UpdateEveryTicks <= 0 {
		cfg.UpdateEveryTicks = def.UpdateEveryTicks
	}
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = def.MaxPlayers
	}
	return &Plugin{
		logger:      logger,
		client:      client,
		scheduler:   scheduler,
		updateEvery: uint64(cfg.UpdateEveryTicks),
		enabled: map[List]bool{
			ListFriends:     cfg.ShowFriends,
			ListChatChannel: cfg.ShowChatChannel,
			ListYourClan:    cfg.ShowYourClan,
			ListGuestClan:   cfg.ShowGuestClan,
		},
		maxPlayers: cfg.MaxPlayers,
		entries:    map[List][]Entry{},
	}
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Subscribe(bus *host.Bus) {
	host.On(bus, p.onGameStateChanged)
	host.On(bus, p.onGameTick)
	host.On(bus, p.onConfigChanged)
}

func (p *Plugin) StartUp() error { return nil }

func (p *Plugin) ShutDown() { p.clear() }

// Entries returns a copy of the list, or nil while it is hidden.
func (p *Plugin) Entries(l List) []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.entries[l]
	if !ok {
		return nil
	}
	return append([]Entry{}, cur...)
}

// Panel renders a visible list as text: a title with the player count, at most
// max_players rows and a line counting the rest.
func (p *Plugin) Panel(l List) (lines []string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.entries[l]
	if !ok {
		return nil, false
	}
	lines = append(lines, fmt.Sprintf("%s (%d)", l, len(cur)))
	for _, e := range cur[:min(len(cur), p.maxPlayers)] {
		lines = append(lines, fmt.Sprintf("%s W%d", e.Name, e.World))
	}
	if rest := len(cur) - p.maxPlayers; rest > 0 {
		lines = append(lines, fmt.Sprintf("... %d more", rest))
	}
	return lines, true
}

func (p *Plugin) onGameStateChanged(e protocol.GameStateChanged) {
	if e.State == protocol.GameStateLoginScreen {
		p.clear()
	}
}

func (p *Plugin) onGameTick(protocol.GameTick) {
	if p.client.GameState() != protocol.GameStateLoggedIn || p.client.TickCount()%p.updateEvery != 0 {
		return
	}
	enabled := make(map[List]bool, len(p.enabled))
	for l, on := range p.enabled {
		enabled[l] = on
	}
	p.scheduler.InvokeLater(func() { p.refresh(enabled) })
}

func (p *Plugin) onConfigChanged(e protocol.ConfigChanged) {
	if e.Group != ConfigGroup {
		return
	}
	if e.Key == "maxPlayers" {
		n, err := strconv.Atoi(e.Value)
		if err != nil || n <= 0 {
			p.logger.Warn("invalid config value", zap.String("key", e.Key), zap.String("value", e.Value))
			return
		}
		p.mu.Lock()
		p.maxPlayers = n
		p.mu.Unlock()
		return
	}
	l, ok := toggleKeys[e.Key]
	if !ok {
		return
	}
	on, err := strconv.ParseBool(e.Value)
	if err != nil {
		p.logger.Warn("invalid config value", zap.String("key", e.Key), zap.String("value", e.Value))
		return
	}
	p.enabled[l] = on
	if !on {
		p.mu.Lock()
		delete(p.entries, l)
		p.mu.Unlock()
	}
}

// refresh rebuilds every list from the client. Logic thread only.
func (p *Plugin) refresh(enabled map[List]bool) {
	local, world, _ := p.client.LocalPlayer()
	local = host.ToJagexName(local)

	next := map[List][]Entry{}
	if enabled[ListFriends] {
		if friends, ok := p.client.Friends(); ok {
			next[ListFriends] = onlineFriends(friends, world)
		}
	}
	for _, l := range Lists[1:] {
		if !enabled[l] {
			continue
		}
		if members, ok := p.client.ChatChannel(channels[l]); ok {
			next[l] = channelEntries(members, local, world)
		}
	}

	p.mu.Lock()
	p.entries = next
	p.mu.Unlock()
	p.logger.Debug("friends viewer refreshed",
		zap.Int("friends", len(next[ListFriends])),
		zap.Int("chat_channel", len(next[ListChatChannel])))
}

func (p *Plugin) clear() {
	p.mu.Lock()
	clear(p.entries)
	p.mu.Unlock()
}

func onlineFriends(friends []protocol.Friend, world int) []Entry {
	out := []Entry{}
	for _, f := range friends {
		if f.World <= 0 {
			continue
		}
		out = append(out, Entry{Name: host.ToJagexName(f.Name), World: f.World, SameWorld: f.World == world})
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return compareFold(a.Name, b.Name)
	})
	return out
}

// channelEntries lists the members other than the local player, highest rank
// first, then by name.
func channelEntries(members []protocol.ChannelMember, local string, world int) []Entry {
	out := []Entry{}
	for _, m := range members {
		name := host.ToJagexName(m.Name)
		if local != "" && name == local {
			continue
		}
		out = append(out, Entry{Name: name, World: m.World, Rank: m.Rank, SameWorld: m.World == world})
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}
		return compareFold(a.Name, b.Name)
	})
	return out
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
